package types

import "strings"

const ptrSuffix = "_ptr"

// EnumSafe maps a source spelling onto the identifier used as table key:
// every '*' becomes "_ptr" and whitespace is dropped.
func EnumSafe(name string) string {
	if !strings.ContainsAny(name, "* \t") {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(name) + 4*strings.Count(name, "*"))
	for i := 0; i < len(name); i++ {
		switch c := name[i]; c {
		case '*':
			sb.WriteString(ptrSuffix)
		case ' ', '\t':
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// PointerNames returns the source and enum-safe names of base with depth
// levels of indirection.
func PointerNames(baseName, baseKey string, depth int) (name, key string) {
	return baseName + strings.Repeat("*", depth), baseKey + strings.Repeat(ptrSuffix, depth)
}
