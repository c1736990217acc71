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
	"testing"

	config "github.com/rcornwell/PPC60x/config/configparser"
)

func option(name string, values ...string) config.Option {
	opt := config.Option{Name: name}
	for i := range values {
		opt.Value = append(opt.Value, &values[i])
	}
	return opt
}

func TestSetDebug(t *testing.T) {
	if err := setDebug(config.NoAddr, "cpu", []config.Option{option("EXCEPTION", "irq", "timer")}); err != nil {
		t.Errorf("Debug cpu failed: %v", err)
	}
	if err := setDebug(config.NoAddr, "cpu", []config.Option{option("EXCEPTION", "bogus")}); err == nil {
		t.Errorf("Debug cpu accepted invalid option")
	}
	if err := setDebug(config.NoAddr, "irqgen", []config.Option{option("PULSE")}); err != nil {
		t.Errorf("Debug irqgen failed: %v", err)
	}
	if err := setDebug(config.NoAddr, "disk", []config.Option{option("READ")}); err == nil {
		t.Errorf("Debug accepted unknown module")
	}
	if err := setDebug(config.NoAddr, "cpu", nil); err == nil {
		t.Errorf("Debug accepted no options")
	}
}
