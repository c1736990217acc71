/*
 * PPC60x - Physical memory
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

package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rcornwell/PPC60x/emu/ppc"
)

// Largest memory that can be configured.
const MaxSize = 256 * 1024 * 1024

// Memory is big endian RAM starting at address zero. Fetches are
// by word, addresses are truncated to a word boundary.
type Memory struct {
	mu   sync.RWMutex
	mem  []uint32
	size uint32
	rom  map[uint32]uint32 // Words outside RAM, usually the boot ROM
}

// Create memory of size bytes, rounded up to a word.
func New(size int) (*Memory, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("memory size out of range: %d", size)
	}
	words := (size + 3) / 4
	return &Memory{mem: make([]uint32, words), size: uint32(words * 4), rom: map[uint32]uint32{}}, nil
}

// Return size of memory in bytes.
func (m *Memory) Size() uint32 {
	return m.size
}

// Check if address out of range.
func (m *Memory) CheckAddr(addr uint32) bool {
	return addr < m.size
}

// Get a word from memory. Returns false if address not mapped.
func (m *Memory) GetWord(addr uint32) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getWord(addr)
}

func (m *Memory) getWord(addr uint32) (uint32, bool) {
	addr &^= 3
	if addr < m.size {
		return m.mem[addr>>2], true
	}
	value, ok := m.rom[addr]
	return value, ok
}

// Put a word to memory. Addresses above RAM are kept as ROM words.
func (m *Memory) PutWord(addr, data uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	addr &^= 3
	if addr < m.size {
		m.mem[addr>>2] = data
		return
	}
	m.rom[addr] = data
}

// ReadOpcode fetches an instruction. Untranslated fetches of unmapped
// addresses read zero, translated ones raise an instruction storage
// exception.
func (m *Memory) ReadOpcode(addr uint32, translated bool) (uint32, ppc.Exception) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.getWord(addr)
	if !ok && translated {
		return 0, ppc.ExcISI
	}
	return value, ppc.ExcNone
}

// Load a binary image at addr.
func (m *Memory) Load(r io.Reader, addr uint32) (int, error) {
	if addr&3 != 0 {
		return 0, fmt.Errorf("load address not word aligned: %08x", addr)
	}
	count := 0
	buf := make([]byte, 4)
	for {
		n, err := io.ReadFull(r, buf)
		if n == 0 {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return count, err
		}
		// Pad a short final word with zeros.
		for i := n; i < 4; i++ {
			buf[i] = 0
		}
		m.PutWord(addr, binary.BigEndian.Uint32(buf))
		addr += 4
		count += n
		if n < 4 {
			return count, nil
		}
		if addr == 0 {
			return count, errors.New("load wrapped past end of address space")
		}
	}
}

// Load a binary image file at addr.
func (m *Memory) LoadFile(name string, addr uint32) (int, error) {
	file, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return m.Load(file, addr)
}
