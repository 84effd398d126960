package emit

import (
	"fmt"
	"strings"

	"meta/internal/types"
)

const banner = `// meta_generated.h
// Generated by meta from @Introspect and @RegisterCommand notes. Do not edit.

`

func kindTag(k types.Kind) string {
	return "TYPE_KIND_" + strings.ToUpper(k.String())
}

func arrayRef(array string, base int, count uint32) string {
	if count == 0 {
		return "0"
	}
	return fmt.Sprintf("&%s[%d]", array, base)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// cstring quotes s as a C string literal.
func cstring(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&sb, `\%03o`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
