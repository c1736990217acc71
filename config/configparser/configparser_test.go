/*
 * PPC60x - Configuration file parser
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

package configparser

import (
	"strings"
	"testing"
)

var (
	testOptions []Option
	testAddr    uint32
	testValue   string
	testType    string
)

func resetTest() {
	testOptions = []Option{}
	testAddr = 0xdeadbeef
	testValue = "error"
	testType = ""
}

func cleanUpConfig() {
	models = map[string]modelDef{}
	resetTest()
}

func record(ty string) CreateFunc {
	return func(addr uint32, value string, options []Option) error {
		testAddr = addr
		testValue = value
		testType = ty
		testOptions = options
		return nil
	}
}

func registerAll() {
	RegisterOption("testoption", record("option"))
	RegisterSwitch("testswitch", record("switch"))
	RegisterModel("testDevice", TypeModel, record("model"))
	RegisterModel("testOptions", TypeOptions, record("options"))
}

// Test registering and creating each type.
func TestRegister(t *testing.T) {
	cleanUpConfig()
	registerAll()

	first := FirstOption{addr: 0x100, isAddr: true, value: "100"}
	if err := createModel("test", &first, nil); err == nil {
		t.Errorf("Create non existent model succeeded")
	}
	if err := createModel("testdevice", &first, nil); err != nil {
		t.Errorf("Unable to create model: %v", err)
	}
	if testAddr != 0x100 {
		t.Errorf("Model address not valid got: %x expected: %x", testAddr, 0x100)
	}
	if err := createSwitch("testdevice"); err == nil {
		t.Errorf("Create model as switch succeeded")
	}
	if err := createSwitch("TestSwitch"); err != nil {
		t.Errorf("Unable to create switch: %v", err)
	}
	if testType != "switch" {
		t.Errorf("Switch not created got: %s", testType)
	}
	if err := createOption("testswitch", &first); err == nil {
		t.Errorf("Create switch as option succeeded")
	}

	list := ModelList()
	expected := []string{"TESTDEVICE", "TESTOPTION", "TESTOPTIONS", "TESTSWITCH"}
	if strings.Join(list, ",") != strings.Join(expected, ",") {
		t.Errorf("Model list got: %v expected: %v", list, expected)
	}
}

// Test parsing of switch lines.
func TestParseLineSwitch(t *testing.T) {
	cleanUpConfig()
	registerAll()

	tests := []struct {
		line string
		ok   bool
	}{
		{"testSwitch", true},
		{"testSwitch  # Comment", true},
		{"testSwitch 0", false},
		{"testSwitch 0 name", false},
	}
	for _, test := range tests {
		resetTest()
		line := optionLine{line: test.line}
		err := line.parseLine()
		if (err == nil) != test.ok {
			t.Errorf("ParseLine %q got: %v", test.line, err)
		}
		if test.ok && testType != "switch" {
			t.Errorf("ParseLine %q did not create a switch", test.line)
		}
		if !test.ok && testType != "" {
			t.Errorf("ParseLine %q created %s", test.line, testType)
		}
	}
}

// Test parsing of single value options.
func TestParseLineOption(t *testing.T) {
	cleanUpConfig()
	registerAll()

	line := optionLine{line: "TESTOPTION"}
	if err := line.parseLine(); err == nil {
		t.Errorf("ParseLine created an option with no argument")
	}

	resetTest()
	line = optionLine{line: "testOption enable  # Comment"}
	if err := line.parseLine(); err != nil {
		t.Errorf("ParseLine failed to parse option: %v", err)
	}
	if testAddr != NoAddr {
		t.Errorf("Option set address to %08x", testAddr)
	}
	if testValue != "enable" {
		t.Errorf("Option value got: %s expected: enable", testValue)
	}

	resetTest()
	line = optionLine{line: "testOption 0100    "}
	if err := line.parseLine(); err != nil {
		t.Errorf("ParseLine failed to parse address: %v", err)
	}
	if testAddr != 0x100 {
		t.Errorf("Option address got: %08x expected: %08x", testAddr, 0x100)
	}
	if testValue != "0100" {
		t.Errorf("Option value got: %s expected: 0100", testValue)
	}

	resetTest()
	line = optionLine{line: `testOption "debug.log"`}
	if err := line.parseLine(); err != nil {
		t.Errorf("ParseLine failed to parse quoted value: %v", err)
	}
	if testValue != "debug.log" {
		t.Errorf("Option value got: %s expected: debug.log", testValue)
	}

	resetTest()
	line = optionLine{line: `testOption "debug.log`}
	if err := line.parseLine(); err == nil {
		t.Errorf("ParseLine accepted unterminated quote")
	}

	resetTest()
	line = optionLine{line: "testOption one two"}
	if err := line.parseLine(); err == nil {
		t.Errorf("ParseLine accepted option with two values")
	}
}

// Test parsing of model lines.
func TestParseLineModel(t *testing.T) {
	cleanUpConfig()
	registerAll()

	line := optionLine{line: "TESTdevice"}
	if err := line.parseLine(); err == nil {
		t.Errorf("ParseLine created model without argument")
	}

	resetTest()
	line = optionLine{line: "testDevice enable  # Comment"}
	if err := line.parseLine(); err == nil {
		t.Errorf("ParseLine created device with invalid address")
	}

	resetTest()
	line = optionLine{line: "testDevice 1 model=602 mult=2 ibr=fff00000  "}
	if err := line.parseLine(); err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if testAddr != 1 {
		t.Errorf("Model address got: %d expected: 1", testAddr)
	}
	if len(testOptions) != 3 {
		t.Fatalf("Model options got: %d expected: 3", len(testOptions))
	}
	names := []string{"MODEL", "MULT", "IBR"}
	values := []string{"602", "2", "fff00000"}
	for i := range names {
		if testOptions[i].Name != names[i] {
			t.Errorf("Option %d name got: %s expected: %s", i, testOptions[i].Name, names[i])
		}
		if testOptions[i].EqualOpt != values[i] {
			t.Errorf("Option %d value got: %s expected: %s", i, testOptions[i].EqualOpt, values[i])
		}
	}

	resetTest()
	line = optionLine{line: "testDevice 0 9bad"}
	if err := line.parseLine(); err == nil {
		t.Errorf("ParseLine accepted option starting with digit")
	}

	line = optionLine{line: "unknown 0"}
	if err := line.parseLine(); err == nil {
		t.Errorf("ParseLine accepted unregistered model")
	}
}

// Test comma lists and quoted values.
func TestParseLineOptionLists(t *testing.T) {
	cleanUpConfig()
	registerAll()

	line := optionLine{line: `testOptions "rom.bin" addr=fff00000 list=a, b,c  quote="x ""y"" z" # comment`}
	if err := line.parseLine(); err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if testType != "options" {
		t.Errorf("ParseLine created %s expected: options", testType)
	}
	if testValue != "rom.bin" {
		t.Errorf("First value got: %s expected: rom.bin", testValue)
	}
	if testAddr != NoAddr {
		t.Errorf("Quoted value set address %08x", testAddr)
	}
	if len(testOptions) != 3 {
		t.Fatalf("Options got: %d expected: 3", len(testOptions))
	}

	addr, err := FindOption(testOptions, "Addr").Hex()
	if err != nil || addr != 0xfff00000 {
		t.Errorf("Addr got: %08x %v expected: fff00000", addr, err)
	}
	list := FindOption(testOptions, "list").List()
	if strings.Join(list, ",") != "a,b,c" {
		t.Errorf("List got: %v expected: [a b c]", list)
	}
	quote := FindOption(testOptions, "quote")
	if quote.EqualOpt != `x "y" z` {
		t.Errorf("Quote got: %s expected: x \"y\" z", quote.EqualOpt)
	}
	if FindOption(testOptions, "missing") != nil {
		t.Errorf("Found option that is not present")
	}
}

// Test option number conversion.
func TestOptionValues(t *testing.T) {
	opt := Option{Name: "MULT", EqualOpt: "4"}
	if v, err := opt.Int(); err != nil || v != 4 {
		t.Errorf("Int got: %d %v expected: 4", v, err)
	}
	opt.EqualOpt = "x4"
	if _, err := opt.Int(); err == nil {
		t.Errorf("Int accepted x4")
	}
	if _, err := opt.Hex(); err == nil {
		t.Errorf("Hex accepted x4")
	}
	opt.EqualOpt = "-1"
	if _, err := opt.Int(); err == nil {
		t.Errorf("Int accepted negative number")
	}
}

// Test loading a configuration from a reader.
func TestLoadConfig(t *testing.T) {
	cleanUpConfig()
	registerAll()

	input := "# machine\r\n\ntestSwitch\ntestDevice 2 mult=3\n"
	if err := LoadConfig(strings.NewReader(input)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if testType != "model" || testAddr != 2 {
		t.Errorf("Last line got: %s %d expected: model 2", testType, testAddr)
	}

	err := LoadConfig(strings.NewReader("testSwitch\nbogus 1\n"))
	if err == nil || !strings.Contains(err.Error(), "line: 2") {
		t.Errorf("Error did not report line 2: %v", err)
	}
}
