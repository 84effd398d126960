package command

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var ErrQuote = errors.New("unterminated quoted string")

// Split breaks a command line into words. Double quotes group words and
// accept \" \\ \n \t escapes. Words are NFC-normalized so composed and
// decomposed input compare equal.
func Split(line string) ([]string, error) {
	var (
		words  []string
		cur    strings.Builder
		inWord bool
		quoted bool
	)
	flush := func() {
		if inWord {
			words = append(words, norm.NFC.String(cur.String()))
			cur.Reset()
			inWord = false
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '\\' && i+1 < len(line):
			i++
			switch e := line[i]; e {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			default:
				cur.WriteByte(e)
			}
		case c == '"':
			quoted = !quoted
			inWord = true
		case !quoted && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			flush()
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if quoted {
		return nil, ErrQuote
	}
	flush()
	return words, nil
}
