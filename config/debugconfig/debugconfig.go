/*
 * PPC60x - Debug configuration options
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

package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/PPC60x/config/configparser"
	"github.com/rcornwell/PPC60x/emu/irqgen"
	"github.com/rcornwell/PPC60x/emu/ppc"
)

// register a device on initialize.
func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

// Apply fn to each option name and comma value.
func eachOption(options []config.Option, fn func(string) error) error {
	for _, opt := range options {
		if err := fn(opt.Name); err != nil {
			return err
		}
		for _, value := range opt.List() {
			if err := fn(strings.ToUpper(value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Set debug options for a module.
func setDebug(_ uint32, module string, options []config.Option) error {
	if len(options) == 0 {
		return errors.New("debug " + module + " requires options")
	}
	switch strings.ToUpper(module) {
	case "CPU":
		return eachOption(options, ppc.Debug)
	case "IRQGEN":
		return eachOption(options, irqgen.Debug)
	}
	return errors.New("debug option invalid: " + module)
}
