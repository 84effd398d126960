package parser

// parseRegisterCommand handles @RegisterCommand. The declaration is parsed
// for shape only; the function itself must be introduced by @Introspect,
// possibly in a later file, so the lookup is deferred to registry.Resolve.
func parseRegisterCommand(w *window) bool {
	sig, ok := w.parseSignature(false)
	if !ok {
		return false
	}
	w.p.ctx.Commands.Request(sig.name.Text, w.p.file.Path, sig.name.Line)
	return true
}
