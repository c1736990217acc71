/*
 * PPC60x - Hexadecimal formatting helpers
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package hex

import "strings"

var hexMap = "0123456789abcdef"

// Write word as eight hex digits.
func FormatWord(str *strings.Builder, word uint32) {
	shift := 28
	for range 8 {
		str.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
}

// Write words separated by spaces.
func FormatWords(str *strings.Builder, words []uint32) {
	for i, word := range words {
		if i != 0 {
			str.WriteByte(' ')
		}
		FormatWord(str, word)
	}
}

// Write a 64 bit value as upper and lower words.
func FormatDouble(str *strings.Builder, value uint64) {
	FormatWord(str, uint32(value>>32))
	str.WriteByte('_')
	FormatWord(str, uint32(value))
}

// Write name=value pairs, perLine to a line.
func FormatRegs(str *strings.Builder, names []string, values []uint32, perLine int) {
	for i, name := range names {
		if i != 0 {
			if perLine > 0 && i%perLine == 0 {
				str.WriteByte('\n')
			} else {
				str.WriteByte(' ')
			}
		}
		str.WriteString(name)
		str.WriteByte('=')
		FormatWord(str, values[i])
	}
}

// Dump words starting at addr, four to a line.
func FormatDump(str *strings.Builder, addr uint32, words []uint32) {
	for i, word := range words {
		if i%4 == 0 {
			if i != 0 {
				str.WriteByte('\n')
			}
			FormatWord(str, addr+uint32(i*4))
			str.WriteByte(':')
		}
		str.WriteByte(' ')
		FormatWord(str, word)
	}
}
