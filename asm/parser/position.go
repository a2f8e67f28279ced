package parser

import "fmt"

// Position defines the source position of a token, instruction or label.
type Position struct {
	File   string // File in which token was defined.
	Line   int    // Line number at which token was defined.
	Col    int    // Column number at which token was defined.
	Offset int    // Byte offset at which token was defined.
}

// String returns the position as file:line:col.
// The file is left out for sources without a name.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}
