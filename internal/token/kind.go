package token

import "fmt"

// Kind represents the category of a lexical token.
type Kind uint8

const (
	// Unknown is a single byte the scanner does not recognise.
	Unknown Kind = iota
	// End marks the end of the buffer. After End the scanner keeps returning End.
	End

	Symbol       // identifiers and keywords alike
	Number       // digits or '.' followed by a digit; not interpreted
	String       // "..."
	Comment      // // or /* */
	Preprocessor // # up to the end of the logical line
	MetaNote     // @Name

	Semicolon // ;
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Dot       // .
	Arrow     // ->
	Assign    // =
	Star      // *
)

var kindNames = [...]string{
	Unknown:      "Unknown",
	End:          "End",
	Symbol:       "Symbol",
	Number:       "Number",
	String:       "String",
	Comment:      "Comment",
	Preprocessor: "Preprocessor",
	MetaNote:     "MetaNote",
	Semicolon:    "Semicolon",
	LParen:       "OpenParen",
	RParen:       "CloseParen",
	LBrace:       "OpenBrace",
	RBrace:       "CloseBrace",
	LBracket:     "OpenBracket",
	RBracket:     "CloseBracket",
	Comma:        "Comma",
	Dot:          "Dot",
	Arrow:        "Arrow",
	Assign:       "Equals",
	Star:         "Asterisk",
}

// String returns the name used in "Expected X but got Y" diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Literal describes one fixed-spelling punctuation token.
type Literal struct {
	Text string
	Kind Kind
}

// Literals is the table of exact spellings, longest first so that "->" wins
// over a lone '-'.
var Literals = []Literal{
	{"->", Arrow},
	{";", Semicolon},
	{"(", LParen},
	{")", RParen},
	{"{", LBrace},
	{"}", RBrace},
	{"[", LBracket},
	{"]", RBracket},
	{",", Comma},
	{".", Dot},
	{"=", Assign},
	{"*", Star},
}
