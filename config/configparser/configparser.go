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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// NoAddr is passed to create functions when the first value is not a number.
const NoAddr = ^uint32(0)

// List of options to pass to create routine.
type Option struct {
	Name     string    // Name of option.
	EqualOpt string    // Value of string after =.
	Value    []*string // Value of option.
}

// First value following the model name.
type FirstOption struct {
	addr   uint32 // Value of option if hex.
	isAddr bool   // Valid number in addr.
	value  string // String value of option.
}

// Current option line being parsed.
type optionLine struct {
	line string // Current option line.
	pos  int    // Current position in line.
}

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <model> <whitespace> <first> <whitespace> <options> |
 *            <model> <quoteopt> |
 *            <switch>
 * <first> ::= <hexnumber> | <string> | <quoteopt>
 * <options> ::= *(<option> *(<whitespace>))
 * <option> ::= <opt> *(<commaopt>)
 * <opt> := <optvalue> | <string>
 * <commaopt> ::= ',' *(<whitespace>) <string>
 * <optvalue> ::= <string> '=' <quoteopt>
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 * <string> ::= *(<letter> | <number>)
 *
 * Example:
 *   CPU 0 MODEL=602 MULT=2 IBR=0
 *   MEMORY 16M
 *   LOAD "boot.bin" ADDR=fff00000
 */

const (
	TypeModel   = 1 + iota // Requires a number first.
	TypeOption             // Accepts a single value.
	TypeOptions            // Accepts a value followed by options.
	TypeSwitch             // Option only used to set a flag.
)

// Create function called for each configuration line.
type CreateFunc func(addr uint32, value string, options []Option) error

// Model creation list.
type modelDef struct {
	create CreateFunc
	ty     int
}

var models = map[string]modelDef{}

var lineNumber int

// Return type of model or 0 if no model.
func getModel(mod string) int {
	model, ok := models[mod]
	if !ok {
		return 0
	}
	return model.ty
}

func register(mod string, ty int, fn CreateFunc) {
	mod = strings.ToUpper(mod)
	slog.Debug("Registering configuration", "model", mod, "type", ty)
	models[mod] = modelDef{create: fn, ty: ty}
}

// Register should be called from init functions.
func RegisterModel(mod string, ty int, fn CreateFunc) {
	register(mod, ty, fn)
}

// Register should be called from init functions.
func RegisterSwitch(mod string, fn CreateFunc) {
	register(mod, TypeSwitch, fn)
}

// Register should be called from init functions.
func RegisterOption(mod string, fn CreateFunc) {
	register(mod, TypeOption, fn)
}

// Return sorted list of registered names.
func ModelList() []string {
	list := make([]string, 0, len(models))
	for name := range models {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Find a model of a given type.
func findModel(mod string, ty int, kind string) (modelDef, error) {
	mod = strings.ToUpper(mod)
	model, ok := models[mod]
	if !ok {
		return model, fmt.Errorf("unknown %s: %s, line: %d", kind, mod, lineNumber)
	}
	if model.ty != ty {
		return model, fmt.Errorf("not a %s type: %s, line: %d", kind, mod, lineNumber)
	}
	return model, nil
}

// Create a model, these require a number.
func createModel(mod string, first *FirstOption, options []Option) error {
	model, err := findModel(mod, TypeModel, "model")
	if err != nil {
		return err
	}
	return model.create(first.addr, "", options)
}

// Create a option with one parameter.
func createOption(mod string, first *FirstOption) error {
	model, err := findModel(mod, TypeOption, "option")
	if err != nil {
		return err
	}
	return model.create(first.addr, first.value, []Option{})
}

// Create a option with options.
func createOptions(mod string, first *FirstOption, options []Option) error {
	model, err := findModel(mod, TypeOptions, "options")
	if err != nil {
		return err
	}
	return model.create(first.addr, first.value, options)
}

// Create switch option.
func createSwitch(mod string) error {
	model, err := findModel(mod, TypeSwitch, "switch")
	if err != nil {
		return err
	}
	return model.create(0, "", nil)
}

// Load in a configuration file.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return LoadConfig(file)
}

// Process configuration lines from a reader.
func LoadConfig(r io.Reader) error {
	lineNumber = 0
	reader := bufio.NewReader(r)
	for {
		var err error

		line := optionLine{}
		line.line, err = reader.ReadString('\n')
		lineNumber++
		if len(line.line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		line.line = strings.TrimRight(line.line, "\r\n")
		err = line.parseLine()
		if err != nil {
			return err
		}
	}
	return nil
}

// Parse one line from file.
func (line *optionLine) parseLine() error {
	model := line.parseModel()
	if model == "" {
		return nil
	}
	switch getModel(model) {
	case TypeModel:
		first, err := line.parseFirst()
		if err != nil {
			return err
		}
		if first == nil || !first.isAddr {
			return fmt.Errorf("%s requires a number, line: %d", model, lineNumber)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return createModel(model, first, options)

	case TypeOption:
		first, err := line.parseFirst()
		if err != nil {
			return err
		}
		line.skipSpace()
		if !line.isEOL() || first == nil {
			return fmt.Errorf("option: %s not followed by single value, line: %d", model, lineNumber)
		}
		return createOption(model, first)

	case TypeOptions:
		first, err := line.parseFirst()
		if err != nil {
			return err
		}
		if first == nil {
			return fmt.Errorf("option: %s not followed by value, line: %d", model, lineNumber)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return createOptions(model, first, options)

	case TypeSwitch:
		line.skipSpace()
		if !line.isEOL() {
			return fmt.Errorf("switch: %s followed by options, line: %d", model, lineNumber)
		}
		return createSwitch(model)
	}
	return fmt.Errorf("no type: %s registered, line: %d", model, lineNumber)
}

// Skip forward over line until none whitespace character found.
func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Return true if character can be part of a name.
func isNameChar(by byte) bool {
	return unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by))
}

// Return next letter or digit in line. 0 if EOL or space.
func (line *optionLine) getNext(inQuote bool) byte {
	line.pos++
	if line.pos >= len(line.line) {
		return 0
	}
	by := line.line[line.pos]
	if inQuote || isNameChar(by) {
		return by
	}
	return 0
}

// Peek at next character.
func (line *optionLine) getPeek() byte {
	if (line.pos + 1) >= len(line.line) {
		return 0
	}
	return line.line[line.pos+1]
}

// Collect letters and digits from current position.
func (line *optionLine) getWord() string {
	start := line.pos
	for !line.isEOL() && isNameChar(line.line[line.pos]) {
		line.pos++
	}
	return line.line[start:line.pos]
}

// Parse model name.
func (line *optionLine) parseModel() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	return strings.ToUpper(line.getWord())
}

// Parse first option parameter. Either a quoted string or a word, words
// that are valid hex numbers also set the address.
func (line *optionLine) parseFirst() (*FirstOption, error) {
	line.skipSpace()
	if line.isEOL() {
		return nil, nil
	}

	if line.line[line.pos] == '"' {
		// parseQuoteString expects to be positioned before the quote.
		line.pos--
		value, ok := line.parseQuoteString()
		if !ok {
			return nil, fmt.Errorf("invalid quoted string line: %d [%d]", lineNumber, line.pos)
		}
		return &FirstOption{addr: NoAddr, value: value}, nil
	}

	value := line.getWord()
	option := FirstOption{addr: NoAddr, value: value}
	addr, err := strconv.ParseUint(value, 16, 32)
	if err == nil {
		option.addr = uint32(addr)
		option.isAddr = true
	}
	return &option, nil
}

// Parse string that is "string" or just string. Position is one before
// the start of the string. Leaves position after the string.
func (line *optionLine) parseQuoteString() (string, bool) {
	inQuote := false
	value := ""

	if line.getPeek() == '"' {
		inQuote = true
		line.pos++
	}

	for {
		by := line.getNext(inQuote)
		if by == '"' && inQuote {
			// A doubled quote stands for one quote.
			if line.getPeek() != '"' {
				line.pos++
				return value, true
			}
			line.pos++
		}

		if !inQuote && by == 0 {
			return value, true
		}

		if inQuote && line.pos >= len(line.line) {
			return value, false
		}
		value += string(by)
	}
}

// Parse option name.
func (line *optionLine) getName() (string, error) {
	if line.isEOL() {
		return "", nil
	}

	// First character must be alphabetic.
	if !unicode.IsLetter(rune(line.line[line.pos])) {
		return "", fmt.Errorf("invalid option encountered line: %d [%d]", lineNumber, line.pos)
	}
	return line.getWord(), nil
}

// Parse options for a line.
func (line *optionLine) parseOption() (*Option, error) {
	line.skipSpace()

	value, err := line.getName()
	if value == "" {
		return nil, err
	}

	option := Option{Name: strings.ToUpper(value)}
	if line.isEOL() {
		return &option, nil
	}

	if line.line[line.pos] == '=' {
		v, ok := line.parseQuoteString()
		if !ok {
			return nil, fmt.Errorf("invalid quoted string line: %d [%d]", lineNumber, line.pos)
		}
		option.EqualOpt = v
	}

	line.skipSpace()

	// Grab all , options
	for !line.isEOL() && line.line[line.pos] == ',' {
		line.pos++
		line.skipSpace()
		v, err := line.getName()
		if err != nil {
			return nil, err
		}
		if v != "" {
			option.Value = append(option.Value, &v)
		}
		line.skipSpace()
	}

	return &option, nil
}

// Collect all options for line.
func (line *optionLine) parseOptions() ([]Option, error) {
	options := []Option{}
	for {
		option, err := line.parseOption()
		if err != nil {
			return nil, err
		}
		if option == nil {
			break
		}
		options = append(options, *option)
	}
	return options, nil
}

// Find option by name, returns nil if not present.
func FindOption(options []Option, name string) *Option {
	name = strings.ToUpper(name)
	for i := range options {
		if options[i].Name == name {
			return &options[i]
		}
	}
	return nil
}

// Parse hex value of an option.
func (opt *Option) Hex() (uint32, error) {
	v, err := strconv.ParseUint(opt.EqualOpt, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("option %s requires hex value: %s", opt.Name, opt.EqualOpt)
	}
	return uint32(v), nil
}

// Parse decimal value of an option.
func (opt *Option) Int() (int, error) {
	v, err := strconv.Atoi(opt.EqualOpt)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("option %s requires a number: %s", opt.Name, opt.EqualOpt)
	}
	return v, nil
}

// Return the value of an option followed by any comma separated values.
func (opt *Option) List() []string {
	list := []string{}
	if opt.EqualOpt != "" {
		list = append(list, opt.EqualOpt)
	}
	for _, v := range opt.Value {
		list = append(list, *v)
	}
	return list
}
