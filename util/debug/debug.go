/*
 * PPC60x - Log debug data to a file
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

package debug

import (
	"fmt"
	"io"
	"os"
	"sync"

	config "github.com/rcornwell/PPC60x/config/configparser"
)

var (
	mu      sync.Mutex
	logFile io.Writer
	closer  io.Closer
	name    string
)

// Generic debug message.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if (mask & level) == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		fmt.Fprintf(logFile, module+": "+format+"\n", a...)
	}
}

// Direct debug output to w, nil disables output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logFile = w
	closer = nil
}

// Close debug file if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	var err error
	if closer != nil {
		err = closer.Close()
	}
	logFile = nil
	closer = nil
	return err
}

// register debug file option on initialize.
func init() {
	config.RegisterOption("DEBUGFILE", create)
}

// Create debug file.
func create(_ uint32, fileName string, _ []config.Option) error {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		return fmt.Errorf("can't have more then one debug file, previous: %s", name)
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %w", err)
	}

	logFile = file
	closer = file
	name = fileName
	return nil
}
