// Package driver runs the meta pipeline: load every input, parse its notes,
// resolve command registrations and layouts, render the header and write
// the outputs.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"meta/internal/diag"
	"meta/internal/emit"
	"meta/internal/layout"
	"meta/internal/parser"
	"meta/internal/pipeline"
	"meta/internal/source"
	"meta/internal/trace"
	"meta/internal/typedb"
)

// Options configures one meta run.
type Options struct {
	Inputs []string // processed in this order
	Out    string
	// BaseDir is the directory logical paths are taken relative to; "" means
	// the working directory.
	BaseDir        string
	Target         layout.Target
	TypeDB         bool
	MaxDiagnostics int
	Progress       pipeline.ProgressSink
}

// Result is what a run produced. On failure the error is a *diag.Fatal and
// nothing has been written.
type Result struct {
	FileSet    *source.FileSet
	Bag        *diag.Bag
	Context    *parser.Context
	Header     string
	HeaderPath string
	Copies     []string // written source copies, in input order
	TypeDBPath string
	Notes      int
	Timings    pipeline.Timings
}

// Generate runs the whole pipeline.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "meta", trace.CurrentSpan(ctx))

	res, err := generate(trace.WithSpan(ctx, root), opts)
	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	root.End(detail)
	return res, err
}

func generate(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Inputs) == 0 {
		return nil, usage(diag.UsageMissingInput, "missing -in: no input files")
	}
	if opts.Out == "" {
		return nil, usage(diag.UsageMissingOutput, "missing -out: no output directory")
	}
	if opts.Target.PtrSize == 0 {
		opts.Target = layout.LP64()
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 64
	}

	r := &run{
		ctx:  ctx,
		opts: opts,
		res: &Result{
			FileSet: source.NewFileSetWithBase(opts.BaseDir),
			Bag:     diag.NewBag(opts.MaxDiagnostics),
			Context: parser.NewContext(),
		},
	}
	if err := r.phase(pipeline.StageLoad, r.load); err != nil {
		return r.res, err
	}
	steps := []struct {
		stage pipeline.Stage
		fn    func() error
	}{
		{pipeline.StageParse, r.parse},
		{pipeline.StageResolve, r.resolve},
		{pipeline.StageLayout, r.layout},
		{pipeline.StageEmit, r.emit},
		{pipeline.StageWrite, r.write},
	}
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return r.res, err
		}
		if err := r.phase(st.stage, st.fn); err != nil {
			return r.res, err
		}
	}
	return r.res, nil
}

type run struct {
	ctx    context.Context
	opts   Options
	res    *Result
	files  []*source.File
	output [][]byte // blanked content, parallel to files
}

func (r *run) sink() pipeline.ProgressSink { return r.opts.Progress }

// phase wraps fn with a pass span, timing and whole-run progress events.
func (r *run) phase(stage pipeline.Stage, fn func() error) error {
	tracer := trace.FromContext(r.ctx)
	sp := trace.Begin(tracer, trace.ScopePass, string(stage), trace.CurrentSpan(r.ctx))
	started := time.Now()
	pipeline.Emit(r.sink(), pipeline.Event{Stage: stage, Status: pipeline.StatusWorking})

	err := fn()

	elapsed := time.Since(started)
	r.res.Timings.Add(stage, elapsed)
	status, detail := pipeline.StatusDone, ""
	if err != nil {
		status, detail = pipeline.StatusError, err.Error()
	}
	pipeline.Emit(r.sink(), pipeline.Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	sp.End(detail)
	return err
}

func (r *run) load() error {
	fs := r.res.FileSet
	display := make([]string, 0, len(r.opts.Inputs))
	for _, in := range r.opts.Inputs {
		if name, err := fs.LogicalPath(in); err == nil {
			display = append(display, name)
		} else {
			display = append(display, in)
		}
	}
	pipeline.Queued(r.sink(), display)

	for i, in := range r.opts.Inputs {
		pipeline.Emit(r.sink(), pipeline.Event{File: display[i], Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
		abs := in
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(fs.BaseDir(), in)
		}
		id, err := fs.Load(abs)
		if err != nil {
			pipeline.Emit(r.sink(), pipeline.Event{File: display[i], Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
			if errors.Is(err, source.ErrOutsideBase) {
				return usage(diag.UsageBadArgument, "input %s is outside %s", in, fs.BaseDir())
			}
			return r.fail(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOReadFailed,
				Message:  fmt.Sprintf("cannot read %s: %v", in, unwrapPath(err)),
			})
		}
		r.files = append(r.files, fs.Get(id))
	}
	return nil
}

func (r *run) parse() error {
	tracer := trace.FromContext(r.ctx)
	parent := trace.CurrentSpan(r.ctx)
	reporter := diag.BagReporter{Bag: r.res.Bag}
	for _, f := range r.files {
		pipeline.Emit(r.sink(), pipeline.Event{File: f.Path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
		sp := trace.Begin(tracer, trace.ScopeFile, "file:"+f.Path, parent)
		started := time.Now()

		out := parser.ParseFile(r.res.Context, f, parser.Options{Reporter: reporter})
		r.output = append(r.output, out.Output)
		r.res.Notes += out.Notes

		sp.WithExtra("notes", strconv.Itoa(out.Notes)).End("")
		ev := pipeline.Event{File: f.Path, Stage: pipeline.StageParse, Status: pipeline.StatusDone, Elapsed: time.Since(started)}
		if out.Failed {
			ev.Status = pipeline.StatusError
			err := diag.FromBag(r.res.Bag)
			ev.Err = err
			pipeline.Emit(r.sink(), ev)
			return err
		}
		pipeline.Emit(r.sink(), ev)
	}
	return nil
}

func (r *run) resolve() error {
	ctx := r.res.Context
	if err := ctx.Commands.Resolve(ctx.Types); err != nil {
		return r.fail(resolveDiagnostic(err))
	}
	return nil
}

func (r *run) layout() error {
	if err := layout.New(r.opts.Target, r.res.Context.Types).Resolve(); err != nil {
		return r.fail(layoutDiagnostic(err))
	}
	return nil
}

func (r *run) emit() error {
	header, err := emit.Header(r.res.Context.Types, r.res.Context.Commands, emit.Options{})
	if err != nil {
		return r.fail(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOWriteFailed, Message: err.Error()})
	}
	r.res.Header = header
	return nil
}

// write stores the copies, then the header, then the optional database.
// Every file is replaced atomically.
func (r *run) write() error {
	out := r.opts.Out
	for i, f := range r.files {
		dst := filepath.Join(out, filepath.FromSlash(f.Path))
		if err := writeFile(dst, r.output[i]); err != nil {
			return r.writeFailed(dst, err)
		}
		r.res.Copies = append(r.res.Copies, dst)
	}

	r.res.HeaderPath = filepath.Join(out, emit.IncludeDir, emit.HeaderName)
	if err := writeFile(r.res.HeaderPath, []byte(r.res.Header)); err != nil {
		return r.writeFailed(r.res.HeaderPath, err)
	}

	if r.opts.TypeDB {
		db, err := typedb.FromTable(r.res.Context.Types, r.res.Context.Commands)
		if err == nil {
			r.res.TypeDBPath = filepath.Join(out, emit.IncludeDir, typedb.FileName)
			err = typedb.Write(r.res.TypeDBPath, db)
		}
		if err != nil {
			return r.writeFailed(r.res.TypeDBPath, err)
		}
	}
	return nil
}

func (r *run) writeFailed(path string, err error) error {
	return r.fail(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOWriteFailed,
		Message:  fmt.Sprintf("cannot write %s: %v", path, unwrapPath(err)),
	})
}

// fail records d in the bag and returns it as a *diag.Fatal.
func (r *run) fail(d diag.Diagnostic) error {
	r.res.Bag.Add(d)
	return diag.NewFatal(d)
}
