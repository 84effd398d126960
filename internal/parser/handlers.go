package parser

// handler parses the declaration following a note. It returns false after
// reporting an error.
type handler func(w *window) bool

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"Introspect":      parseIntrospect,
		"RegisterCommand": parseRegisterCommand,
	}
}

func lookupHandler(name string) (handler, bool) {
	h, ok := handlers[name]
	return h, ok
}
