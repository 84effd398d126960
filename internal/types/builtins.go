package types

// builtin primitives seeded into every table; sizes follow LP64.
var builtins = []struct {
	name string
	info TypeInfo
}{
	{"void", TypeInfo{Kind: KindVoid}},
	{"bool", TypeInfo{Kind: KindBool, Size: 1, Align: 1}},
	{"_Bool", TypeInfo{Kind: KindBool, Size: 1, Align: 1}},
	{"char", Integer(8, true)},
	{"short", Integer(16, true)},
	{"int", Integer(32, true)},
	{"long", Integer(64, true)},
	{"float", Float(32)},
	{"double", Float(64)},
	{"int8_t", Integer(8, true)},
	{"int16_t", Integer(16, true)},
	{"int32_t", Integer(32, true)},
	{"int64_t", Integer(64, true)},
	{"uint8_t", Integer(8, false)},
	{"uint16_t", Integer(16, false)},
	{"uint32_t", Integer(32, false)},
	{"uint64_t", Integer(64, false)},
	{"size_t", Integer(64, false)},
	{"ptrdiff_t", Integer(64, true)},
	{"intptr_t", Integer(64, true)},
	{"uintptr_t", Integer(64, false)},
}
