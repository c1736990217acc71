/*
 * PPC60x - Console command parser
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

package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/rcornwell/PPC60x/emu/core"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Process  func(*cmdLine, *core.Core) (bool, error)
	Complete func(*cmdLine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

// Execute the command line given, returns true when console should exit.
func ProcessCommand(commandLine string, core *core.Core) (bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord()
	if command == "" {
		if line.isEOL() {
			return false, nil
		}
		return false, errors.New("invalid command: " + strings.TrimSpace(commandLine))
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}

	return match[0].Process(&line, core)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.Name) {
		return false
	}
	if !strings.HasPrefix(match.Name, command) {
		return false
	}
	return len(command) >= match.Min
}

// Check if command matches one of the commands.
func matchList(command string) []cmd {
	if command == "" {
		return []cmd{}
	}

	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Return current character and advance to next.
func (line *cmdLine) getCurrent() byte {
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// Check that nothing but a comment follows.
func (line *cmdLine) atEnd() error {
	line.skipSpace()
	if !line.isEOL() {
		return errors.New("extra arguments: " + line.line[line.pos:])
	}
	return nil
}

// Parse string that is "string" or just string.
func (line *cmdLine) parseQuoteString() (string, bool) {
	line.skipSpace()
	inQuote := false
	value := ""

	by := line.getCurrent()
	if by == 0 {
		return "", false
	}

	if by == '"' {
		inQuote = true
		by = line.getCurrent()
	}

	for by != 0 {
		if inQuote {
			if by == '"' {
				// Doubled quote is a literal quote.
				if line.pos >= len(line.line) || line.line[line.pos] != '"' {
					return value, true
				}
				line.pos++
			}
		} else if unicode.IsSpace(rune(by)) {
			return value, true
		}
		value += string(by)
		if inQuote && line.pos < len(line.line) {
			// Comment character has no meaning inside quotes.
			by = line.line[line.pos]
			line.pos++
			continue
		}
		by = line.getCurrent()
	}
	return value, !inQuote && value != ""
}

// Parse a decimal number.
func (line *cmdLine) getNumber() (int, error) {
	line.skipSpace()
	if line.isEOL() {
		return 0, errors.New("not a number")
	}

	value := 0
	for by := line.getCurrent(); by != 0; by = line.getCurrent() {
		if unicode.IsSpace(rune(by)) {
			break
		}
		if !unicode.IsDigit(rune(by)) {
			return 0, errors.New("not a number")
		}
		value = (value * 10) + int(by-'0')
	}
	return value, nil
}

const hexDigits = "0123456789abcdef"

// Parse hex number.
func (line *cmdLine) getHex() (uint32, error) {
	line.skipSpace()
	if line.isEOL() {
		return 0, errors.New("not a number")
	}

	pos := line.pos
	value := uint64(0)
	for by := line.getCurrent(); by != 0; by = line.getCurrent() {
		if unicode.IsSpace(rune(by)) {
			break
		}
		digit := strings.IndexByte(hexDigits, byte(unicode.ToLower(rune(by))))
		if digit == -1 {
			line.pos = pos
			return 0, errors.New("not a number")
		}
		value = (value << 4) + uint64(digit)
		if value > 0xffffffff {
			line.pos = pos
			return 0, errors.New("number too large")
		}
	}
	return uint32(value), nil
}

// Parse a word of letters, returned in lower case.
func (line *cmdLine) getWord() string {
	line.skipSpace()

	value := ""
	pos := line.pos
	for by := line.getCurrent(); by != 0; by = line.getCurrent() {
		if unicode.IsSpace(rune(by)) {
			break
		}
		if !unicode.IsLetter(rune(by)) {
			line.pos = pos
			return ""
		}
		value += string(by)
	}
	return strings.ToLower(value)
}
