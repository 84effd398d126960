package driver

import (
	"path/filepath"
	"slices"

	"meta/internal/diag"
	"meta/internal/lexer"
	"meta/internal/source"
	"meta/internal/token"
)

// Scan is the token stream of one file together with what the scanner
// reported while producing it.
type Scan struct {
	Files  *source.FileSet
	File   *source.File
	Tokens []token.Token
	Diags  *diag.Bag
}

// Tokenize reads path and scans it to the End token. Notes and comments are
// kept in the stream.
func Tokenize(path string, maxDiagnostics int) (*Scan, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	// путь в диагностике: только имя файла
	fs := source.NewFileSetWithBase(filepath.Dir(abs))
	id, err := fs.Load(abs)
	if err != nil {
		return nil, err
	}
	scan := &Scan{Files: fs, File: fs.Get(id), Diags: diag.NewBag(maxDiagnostics)}
	lx := lexer.New(scan.File, lexer.Options{Reporter: diag.BagReporter{Bag: scan.Diags}})
	for tok := lx.Next(); ; tok = lx.Next() {
		scan.Tokens = append(scan.Tokens, tok)
		if tok.Kind == token.End {
			break
		}
	}
	scan.Tokens = slices.Clip(scan.Tokens)
	return scan, nil
}
