package gofront

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"

	"fortio.org/safecast"
	"golang.org/x/tools/go/ast/astutil"

	"keystroke/internal/diag"
	"keystroke/internal/frontend"
	"keystroke/internal/source"
	"keystroke/internal/trace"
)

// Compiler compiles snippets; it is safe for concurrent use. Units share
// only the import cache.
type Compiler struct {
	imports *ImportCache
}

var _ frontend.Compiler = (*Compiler)(nil)

// Option configures a Compiler.
type Option func(*Compiler)

// WithImporter loads packages through imp instead of from source.
func WithImporter(imp types.Importer) Option {
	return func(c *Compiler) { c.imports = NewImportCache(DefaultCacheSize, imp) }
}

// WithImportCache shares an existing cache, e.g. between compilers of one
// process.
func WithImportCache(cache *ImportCache) Option {
	return func(c *Compiler) { c.imports = cache }
}

func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, o := range opts {
		o(c)
	}
	if c.imports == nil {
		c.imports = NewImportCache(DefaultCacheSize, nil)
	}
	return c
}

// Imports returns the compiler's import cache.
func (c *Compiler) Imports() *ImportCache { return c.imports }

// Compile parses and type-checks src. Every problem in src becomes a
// diagnostic of the unit; an error means the compiler itself failed.
func (c *Compiler) Compile(ctx context.Context, src string, opts frontend.Options) (unit frontend.Unit, err error) {
	if verr := opts.Validate(); verr != nil {
		return nil, frontend.Invocation("compile", verr)
	}
	if _, cerr := safecast.Conv[uint32](len(scriptHeader) + len(src) + len(scriptFooter)); cerr != nil {
		return nil, frontend.Invocation("compile", fmt.Errorf("source too large: %w", cerr))
	}
	defer func() {
		if r := recover(); r != nil {
			unit, err = nil, frontend.Invocation("compile", fmt.Errorf("panic: %v", r))
		}
	}()

	u := &Unit{
		opts: opts.Clone(),
		src:  src,
		fs:   source.NewFileSet(),
		fset: token.NewFileSet(),
	}
	u.fileID = u.fs.AddVirtual(ScriptName, []byte(src))

	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	file, err := u.parse(ctx, rep)
	if err != nil {
		return nil, frontend.Invocation("parse", err)
	}
	u.check(ctx, file, rep, c.imports)

	bag.Sort()
	u.diags = bag.Items()
	return u, nil
}

func (u *Unit) parse(ctx context.Context, rep diag.Reporter) (*ast.File, error) {
	sp, _ := trace.BeginCtx(ctx, trace.ScopePass, "parse")
	defer sp.End("")

	text := scriptHeader + u.src + scriptFooter
	file, perr := parser.ParseFile(u.fset, ScriptName, text, parser.AllErrors|parser.ParseComments|parser.SkipObjectResolution)
	if file == nil {
		if perr == nil {
			perr = errors.New("parser returned no file")
		}
		return nil, perr
	}

	var list scanner.ErrorList
	if errors.As(perr, &list) {
		sp.WithExtraInt("errors", len(list))
		for _, e := range list {
			raw := e.Pos.Offset - len(scriptHeader)
			code := syntaxCode(e.Msg)
			primary := u.pointSpan(raw)
			switch code {
			case diag.SynUnterminatedString, diag.SynUnterminatedRune:
				primary = u.span(raw, u.lineEnd(u.clamp(raw)))
			case diag.SynUnterminatedComment:
				primary = u.span(raw, len(u.src))
			}
			rep.Report(code, diag.SevError, primary, e.Msg, nil)
		}
	} else if perr != nil {
		rep.Report(diag.SynError, diag.SevError, u.span(0, 0), perr.Error(), nil)
	}

	for _, path := range u.opts.DefaultImports {
		astutil.AddImport(u.fset, file, path)
	}
	u.tree = &Tree{unit: u, file: file, tok: u.fset.File(file.Pos())}
	u.collectDirectives(file)
	return file, nil
}

func (u *Unit) check(ctx context.Context, file *ast.File, rep diag.Reporter, imports types.Importer) {
	sp, _ := trace.BeginCtx(ctx, trace.ScopePass, "typecheck")
	errs := 0
	defer func() { sp.WithExtraInt("errors", errs).End("") }()

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
	conf := types.Config{
		Importer: imports,
		Error: func(err error) {
			errs++
			var terr types.Error
			if !errors.As(err, &terr) {
				rep.Report(diag.SemaError, diag.SevError, u.span(0, 0), err.Error(), nil)
				return
			}
			sev := diag.SevError
			if terr.Soft {
				sev = diag.SevWarning
			}
			raw, _ := u.rawOffset(terr.Pos)
			rep.Report(semaCode(terr.Msg), sev, u.pointSpan(raw), terr.Msg, nil)
		},
	}
	// Check reports every error through conf.Error; the returned one is the first of them
	pkg, _ := conf.Check("main", u.fset, []*ast.File{file}, info)
	u.model = &Model{tree: u.tree, pkg: pkg, info: info, main: mainObject(file, info)}
}
