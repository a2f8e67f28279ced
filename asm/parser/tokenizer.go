package parser

import (
	"io"
	"runtime"
	"sort"

	"github.com/pkg/errors"
)

// Known token types.
const (
	tokInstructionBegin = 1 + iota
	tokInstructionEnd
	tokOperandBegin
	tokOperandEnd
	tokMemoryBegin
	tokMemoryEnd
	tokLabel
	tokNumber
	tokIdent
	tokRegister
	tokBreakPoint
)

// Digit sets for numeric literals. The underscore separates digit groups
// and is accepted anywhere but in the leading position.
var (
	binaryDigits  = []byte(`_01`)
	decimalDigits = []byte(`_0123456789`)
	hexDigits     = []byte(`_0123456789abcdefABCDEF`)
)

// tokenFunc receives every token as it is read.
type tokenFunc func(typ int, pos Position, value string) error

// tokenizer splits source into tokens. It reads bytes between start and pos;
// everything before start has been emitted or skipped.
type tokenizer struct {
	data  []byte
	lines []int // Offsets at which each line starts.
	file  string
	tf    tokenFunc
	start int
	pos   int
}

// tokenize reads sourcecode from the given reader and passes each token
// to tf. The filename provides source context for each token.
func tokenize(r io.Reader, filename string, tf tokenFunc) (err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, "parse error")
	}

	t := &tokenizer{
		data:  data,
		lines: []int{0},
		file:  filename,
		tf:    tf,
	}

	for i, b := range data {
		if b == '\n' {
			t.lines = append(t.lines, i+1)
		}
	}

	// Errors unwind the reader functions as panics.
	defer func() {
		x := recover()
		if x == nil {
			return
		}

		if _, ok := x.(runtime.Error); ok {
			panic(x)
		}

		err = x.(error)
	}()

	t.readDocument()
	return nil
}

// readDocument reads a source file.
func (t *tokenizer) readDocument() {
	for !t.eof() {
		switch {
		case t.readSpace():
		case t.readComment():
		case t.readLabel():
		case t.readBreakpoint():
		case t.readInstruction():
		default:
			t.error("unexpected token: '%c'; expected comment, label or instruction", t.next())
		}
	}
}

// readBreakpoint reads a breakpoint marker. It applies to the next instruction.
func (t *tokenizer) readBreakpoint() bool {
	if !t.acceptKeyword("break") {
		return false
	}
	t.emit(tokBreakPoint)
	return true
}

// readLabel reads a label definition: a colon directly followed by a name.
func (t *tokenizer) readLabel() bool {
	if !t.accept(':') {
		return false
	}

	t.ignore()

	if !t.acceptName() {
		t.error("invalid label definition; expected name")
	}

	t.emit(tokLabel)
	return true
}

// readInstruction reads a mnemonic followed by its comma separated operands.
// The instruction ends at a newline or comment. A trailing comma continues
// the operand list on the next line.
func (t *tokenizer) readInstruction() bool {
	if !t.acceptName() {
		return false
	}

	t.emit(tokInstructionBegin)
	defer t.emit(tokInstructionEnd)

	for t.readOperand() {
	}

	return true
}

// readOperand reads a single operand.
// Returns true if a comma follows, meaning more operands follow.
func (t *tokenizer) readOperand() bool {
	comma := t.accept(',')
	t.ignore()

	if t.readSpace() && !comma {
		return false
	}

	if !comma && t.readComment() {
		return false
	}

	t.emit(tokOperandBegin)
	defer t.emit(tokOperandEnd)

	switch {
	case t.readRegister():
	case t.readNumber():
		t.readMemory()
	case t.readMemory():
	case t.readIdent():
	default:
		t.error("unexpected token '%c'; expected register, number, label or memory operand", t.next())
	}

	switch {
	case t.readSpace(), t.readComment():
		return false
	case t.peek() == ',':
		return true
	}

	t.error("unexpected token '%c'; expected ',' or end of line", t.next())
	return false
}

// readRegister reads a numbered register reference: $n.
// Named registers are read as identifiers.
func (t *tokenizer) readRegister() bool {
	if !t.accept('$') {
		return false
	}

	if !t.acceptRun(decimalDigits[1:]...) {
		t.error("invalid register; expected register number after '$'")
	}

	t.emit(tokRegister)
	return true
}

// readMemory reads a base register enclosed in parentheses.
func (t *tokenizer) readMemory() bool {
	if !t.accept('(') {
		return false
	}

	t.emit(tokMemoryBegin)

	if !t.readRegister() && !t.readIdent() {
		t.error("unexpected token '%c'; expected base register", t.next())
	}

	if !t.accept(')') {
		t.error("unexpected token '%c'; expected ')'", t.next())
	}

	t.emit(tokMemoryEnd)
	return true
}

// readNumber reads a numeric literal.
//
// Numbers are decimal by default. Hexadecimal and binary values take
// a 0x or 0b prefix. Any other base is written as x#y, where x is the
// base and y the actual numeric value:
//
//	-42
//	0xff
//	0b1010
//	8#644
//
// Any of these can carry a leading sign.
func (t *tokenizer) readNumber() bool {
	t.acceptAny('-', '+')

	digits := decimalDigits
	prefixed := true

	switch {
	case t.acceptWord("0x"), t.acceptWord("0X"):
		digits = hexDigits
	case t.acceptWord("0b"), t.acceptWord("0B"):
		digits = binaryDigits
	default:
		mark := t.pos
		if t.acceptRun(decimalDigits[1:]...) && t.accept('#') {
			digits = hexDigits
			break
		}
		t.pos = mark
		prefixed = false
	}

	if !t.acceptAny(digits[1:]...) {
		if prefixed {
			t.error("invalid number %q; expected digits", t.current())
		}
		t.reset()
		return false
	}

	t.acceptRun(digits...)

	if !t.atDelimiter() {
		t.error("unexpected token '%c' in number; expected any of %q", t.next(), digits)
	}

	t.emit(tokNumber)
	return true
}

// readIdent reads an identifier.
func (t *tokenizer) readIdent() bool {
	if !t.acceptName() {
		return false
	}
	t.emit(tokIdent)
	return true
}

// readComment skips a comment running from ';' to the end of the line.
func (t *tokenizer) readComment() bool {
	if !t.accept(';') {
		return false
	}

	for !t.eof() && t.peek() != '\n' {
		t.pos++
	}

	t.ignore()
	return true
}

// readSpace skips whitespace.
// Returns true if it crossed a newline or reached the end of the data.
func (t *tokenizer) readSpace() bool {
	var newline bool

	for !t.eof() && isSpace(t.peek()) {
		newline = newline || t.peek() == '\n'
		t.pos++
	}

	t.ignore()
	return newline || t.eof()
}

// acceptName reads a name: a letter, '.' or '_' followed by any number of
// letters, digits, '.' or '_'.
func (t *tokenizer) acceptName() bool {
	if b := t.peek(); b != '.' && b != '_' && !isAlpha(b) {
		return false
	}

	for b := t.peek(); b == '.' || b == '_' || isAlpha(b) || isDigit(b); b = t.peek() {
		t.pos++
	}

	return true
}

// acceptKeyword reads str only if it is followed by a delimiter.
func (t *tokenizer) acceptKeyword(str string) bool {
	mark := t.pos
	if t.acceptWord(str) && t.atDelimiter() {
		return true
	}
	t.pos = mark
	return false
}

// acceptWord reads str, or nothing at all.
func (t *tokenizer) acceptWord(str string) bool {
	mark := t.pos
	for i := 0; i < len(str); i++ {
		if !t.accept(str[i]) {
			t.pos = mark
			return false
		}
	}
	return true
}

// acceptRun reads bytes as long as they occur in set.
// Returns true if at least one byte was read.
func (t *tokenizer) acceptRun(set ...byte) bool {
	mark := t.pos
	for inSet(set, t.peek()) {
		t.pos++
	}
	return t.pos > mark
}

// acceptAny reads the next byte if it is in set.
func (t *tokenizer) acceptAny(set ...byte) bool {
	if inSet(set, t.peek()) {
		t.pos++
		return true
	}
	return false
}

// accept reads the next byte if it equals x.
func (t *tokenizer) accept(x byte) bool {
	if t.peek() == x {
		t.pos++
		return true
	}
	return false
}

// atDelimiter returns true if the next byte ends a word.
func (t *tokenizer) atDelimiter() bool {
	switch b := t.peek(); b {
	case ',', ';', '(', ')':
		return true
	default:
		return isSpace(b)
	}
}

// peek returns the next byte without consuming it.
// The end of the data reads as a newline.
func (t *tokenizer) peek() byte {
	if t.eof() {
		return '\n'
	}
	return t.data[t.pos]
}

// next consumes and returns the next byte.
func (t *tokenizer) next() byte {
	b := t.peek()
	if !t.eof() {
		t.pos++
	}
	return b
}

func (t *tokenizer) eof() bool {
	return t.pos >= len(t.data)
}

// current returns the bytes read since the last emitted token.
func (t *tokenizer) current() string {
	return string(t.data[t.start:t.pos])
}

// reset discards the bytes read since the last emitted token.
func (t *tokenizer) reset() {
	t.pos = t.start
}

// ignore skips the bytes read since the last emitted token.
func (t *tokenizer) ignore() {
	t.start = t.pos
}

// emit passes the current token to the token func.
func (t *tokenizer) emit(typ int) {
	if err := t.tf(typ, t.position(t.start), t.current()); err != nil {
		panic(err)
	}
	t.ignore()
}

// error aborts tokenization with a syntax error at the current token.
func (t *tokenizer) error(f string, argv ...interface{}) {
	panic(NewError(t.position(t.start), f, argv...))
}

// position returns the source position of the given byte offset.
func (t *tokenizer) position(offset int) Position {
	line := sort.Search(len(t.lines), func(i int) bool {
		return t.lines[i] > offset
	})

	return Position{
		File:   t.file,
		Line:   line,
		Col:    offset - t.lines[line-1] + 1,
		Offset: offset,
	}
}

func isAlpha(x byte) bool {
	return (x >= 'a' && x <= 'z') || (x >= 'A' && x <= 'Z')
}

func isDigit(x byte) bool {
	return x >= '0' && x <= '9'
}

func isSpace(x byte) bool {
	switch x {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func inSet(set []byte, x byte) bool {
	for _, v := range set {
		if x == v {
			return true
		}
	}
	return false
}
