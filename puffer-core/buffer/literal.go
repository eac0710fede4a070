package buffer

import "fmt"

// LiteralCode selects a well-known protocol framing fragment from the
// literal table. The table is fixed at process start; the protocol layer
// passes codes into CopyLiteral and Split to frame rewritten requests.
type LiteralCode int

// Available literal codes. literalSentinel bounds the valid range and is
// not itself a usable literal.
const (
	LiteralGet LiteralCode = iota // "get " command prefix
	LiteralGets                   // "gets " command prefix
	LiteralCRLF                   // line terminator
	literalSentinel
)

// Built once at process start, never mutated afterwards.
var literalTable = [literalSentinel][]byte{
	LiteralGet:  []byte("get "),
	LiteralGets: []byte("gets "),
	LiteralCRLF: []byte("\r\n"),
}

// Valid reports whether the code selects a real table entry.
func (c LiteralCode) Valid() bool {
	return c >= LiteralGet && c < literalSentinel
}

// Bytes returns the literal's bytes. The returned slice must not be
// modified. Passing an out-of-range code is a fatal caller bug.
func (c LiteralCode) Bytes() []byte {
	if !c.Valid() {
		panic(fmt.Sprintf("buffer: literal code %d out of range [%d, %d)",
			c, LiteralGet, literalSentinel))
	}
	return literalTable[c]
}

// Len returns the literal's length in bytes.
func (c LiteralCode) Len() int {
	return len(c.Bytes())
}

func (c LiteralCode) String() string {
	switch c {
	case LiteralGet:
		return "get"
	case LiteralGets:
		return "gets"
	case LiteralCRLF:
		return "crlf"
	default:
		return fmt.Sprintf("literal(%d)", int(c))
	}
}
