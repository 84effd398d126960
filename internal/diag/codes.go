package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Использование CLI
	UsageInfo          Code = 100
	UsageMissingInput  Code = 101
	UsageMissingOutput Code = 102
	UsageBadArgument   Code = 103
	UsageBadManifest   Code = 104

	// Ввод-вывод
	IOInfo        Code = 150
	IOReadFailed  Code = 151
	IOWriteFailed Code = 152

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Разбор аннотаций
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnknownNote     Code = 2002
	SynNotImplemented  Code = 2003

	// Семантика таблицы типов
	SemaInfo               Code = 3000
	SemaRedefinition       Code = 3001
	SemaMissingFunction    Code = 3002
	SemaNotAFunction       Code = 3003
	SemaDuplicateCommand   Code = 3004
	SemaMissingPointerBase Code = 3005

	// Раскладка
	LayoutInfo         Code = 4000
	LayoutUnknownType  Code = 4001
	LayoutRecursive    Code = 4002
	LayoutUnsizedValue Code = 4003

	// Конфиг
	ConfigInfo         Code = 5000
	ConfigMissingNode  Code = 5001
	ConfigTypeMismatch Code = 5002
	ConfigMalformed    Code = 5003
	ConfigUnsupported  Code = 5004
	ConfigSyntax       Code = 5005
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	UsageInfo:          "Usage information",
	UsageMissingInput:  "Missing -in",
	UsageMissingOutput: "Missing -out",
	UsageBadArgument:   "Bad command-line argument",
	UsageBadManifest:   "Invalid manifest",

	IOInfo:        "I/O information",
	IOReadFailed:  "Cannot read input",
	IOWriteFailed: "Cannot write output",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",

	SynInfo:            "Syntax information",
	SynUnexpectedToken: "Unexpected token",
	SynUnknownNote:     "Unknown meta note",
	SynNotImplemented:  "Not implemented",

	SemaInfo:               "Semantic information",
	SemaRedefinition:       "Type redefinition",
	SemaMissingFunction:    "Missing function definition",
	SemaNotAFunction:       "Not a function",
	SemaDuplicateCommand:   "Command registered twice",
	SemaMissingPointerBase: "Unknown pointer base",

	LayoutInfo:         "Layout information",
	LayoutUnknownType:  "Size depends on an UNKNOWN type",
	LayoutRecursive:    "Recursive value type",
	LayoutUnsizedValue: "Unsized member",

	ConfigInfo:         "Config information",
	ConfigMissingNode:  "No such node",
	ConfigTypeMismatch: "Type mismatch",
	ConfigMalformed:    "Malformed literal",
	ConfigUnsupported:  "Unsupported value type",
	ConfigSyntax:       "Config syntax error",
}

// ID returns the stable textual identifier, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 100 && ic < 150:
		return fmt.Sprintf("USE%04d", ic)
	case ic >= 150 && ic < 200:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
