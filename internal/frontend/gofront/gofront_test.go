package gofront

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"testing"

	"keystroke/internal/diag"
	"keystroke/internal/frontend"
)

type fakeImporter struct {
	pkgs    map[string]*types.Package
	calls   int
	panicOn string
}

func newFakeImporter() *fakeImporter {
	return &fakeImporter{pkgs: map[string]*types.Package{"fmt": fakeFmt()}}
}

func (f *fakeImporter) Import(path string) (*types.Package, error) {
	f.calls++
	if path == f.panicOn {
		panic("importer exploded")
	}
	pkg, ok := f.pkgs[path]
	if !ok {
		return nil, fmt.Errorf("package %q not found", path)
	}
	return pkg, nil
}

// fakeFmt declares func Println(a ...any) (n int, err error).
func fakeFmt() *types.Package {
	pkg := types.NewPackage("fmt", "fmt")
	anySlice := types.NewSlice(types.Universe.Lookup("any").Type())
	params := types.NewTuple(types.NewVar(token.NoPos, pkg, "a", anySlice))
	results := types.NewTuple(
		types.NewVar(token.NoPos, pkg, "n", types.Typ[types.Int]),
		types.NewVar(token.NoPos, pkg, "err", types.Universe.Lookup("error").Type()),
	)
	sig := types.NewSignatureType(nil, nil, nil, params, results, true)
	pkg.Scope().Insert(types.NewFunc(token.NoPos, pkg, "Println", sig))
	pkg.MarkComplete()
	return pkg
}

func compile(t *testing.T, src string, opts frontend.Options) *Unit {
	t.Helper()
	c := New(WithImporter(newFakeImporter()))
	u, err := c.Compile(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return u.(*Unit)
}

func find(u *Unit, code diag.Code) (diag.Diagnostic, bool) {
	for _, d := range u.Diagnostics() {
		if d.Code == code {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}

func active(u *Unit) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range u.Diagnostics() {
		if u.Suppression(d) == nil {
			out = append(out, d)
		}
	}
	return out
}

func TestCompileCleanSnippet(t *testing.T) {
	u := compile(t, "x := 1\nfmt.Println(x)", frontend.DefaultOptions())
	if n := len(u.Diagnostics()); n != 0 {
		t.Fatalf("diagnostics = %v", u.Diagnostics())
	}
	if trees := u.SyntaxTrees(); len(trees) != 1 || trees[0].Name() != ScriptName {
		t.Fatalf("trees = %v", trees)
	}
}

func TestCompileImplicitImportSuppressed(t *testing.T) {
	u := compile(t, "x := 1", frontend.DefaultOptions())

	imp, ok := find(u, diag.SemaUnusedImport)
	if !ok {
		t.Fatalf("no unused import diagnostic in %v", u.Diagnostics())
	}
	if !imp.Primary.Empty() || imp.Primary.Start != 0 {
		t.Errorf("wrapper position not clamped: %v", imp.Primary)
	}
	info := u.Suppression(imp)
	if info == nil || info.Kind != diag.SuppressImplicitImport {
		t.Fatalf("suppression = %+v", info)
	}

	unused, ok := find(u, diag.SemaUnusedVar)
	if !ok {
		t.Fatalf("no unused variable diagnostic")
	}
	if unused.Severity != diag.SevWarning || unused.Primary.Start != 0 || unused.Primary.End != 1 {
		t.Errorf("unused var = %v %v", unused.Severity, unused.Primary)
	}
	if u.Suppression(unused) != nil {
		t.Errorf("unused variable suppressed")
	}
}

func TestCompileUnterminatedString(t *testing.T) {
	u := compile(t, `s := "ab`, frontend.DefaultOptions())
	d, ok := find(u, diag.SynUnterminatedString)
	if !ok {
		t.Fatalf("diagnostics = %v", u.Diagnostics())
	}
	if d.Severity != diag.SevError || d.Primary.Start != 5 || d.Primary.End != 8 {
		t.Errorf("unterminated string = %v %v", d.Severity, d.Primary)
	}
}

func TestCompileUndefined(t *testing.T) {
	u := compile(t, "x := y\n_ = x", frontend.DefaultOptions())
	d, ok := find(u, diag.SemaUndefined)
	if !ok {
		t.Fatalf("diagnostics = %v", u.Diagnostics())
	}
	if d.Message != "undefined: y" || d.Primary.Start != 5 || d.Primary.End != 6 {
		t.Errorf("undefined = %q %v", d.Message, d.Primary)
	}
	if got := active(u); len(got) != 1 {
		t.Errorf("active = %v", got)
	}
}

func TestCompilePartialSelector(t *testing.T) {
	u := compile(t, "fmt.Prin", frontend.DefaultOptions())
	if _, ok := find(u, diag.SemaUndefined); !ok {
		t.Fatalf("diagnostics = %v", u.Diagnostics())
	}
	if _, ok := find(u, diag.SemaUnusedImport); ok {
		t.Errorf("fmt is referenced, import must count as used")
	}
}

func TestCompileEveryPrefixSucceeds(t *testing.T) {
	src := "s := []int{1, 2}\nfor i, v := range s {\n\tfmt.Println(i, v) /* done */\n}\nr := 'x'\n_ = r"
	c := New(WithImporter(newFakeImporter()))
	for i := 1; i < len(src); i++ {
		u, err := c.Compile(context.Background(), src[:i], frontend.DefaultOptions())
		if err != nil {
			t.Fatalf("prefix %d: %v", i, err)
		}
		for _, d := range u.Diagnostics() {
			if int(d.Primary.End) > i || d.Primary.Start > d.Primary.End {
				t.Fatalf("prefix %d: span %v out of bounds", i, d.Primary)
			}
		}
	}
}

func TestDirectiveSuppression(t *testing.T) {
	u := compile(t, "//keystroke:ignore SEM3003 scratch value\nx := 1", frontend.DefaultOptions())
	d, ok := find(u, diag.SemaUnusedVar)
	if !ok {
		t.Fatalf("diagnostics = %v", u.Diagnostics())
	}
	info := u.Suppression(d)
	if info == nil || info.Kind != diag.SuppressDirective {
		t.Fatalf("suppression = %+v", info)
	}
	if info.Reason != "scratch value" || !info.HasDirective || info.Directive.Start != 0 {
		t.Errorf("directive info = %+v", info)
	}
}

func TestDirectiveOtherCodeDoesNotSuppress(t *testing.T) {
	u := compile(t, "//keystroke:ignore SEM3002\nx := 1", frontend.DefaultOptions())
	d, _ := find(u, diag.SemaUnusedVar)
	if info := u.Suppression(d); info != nil {
		t.Fatalf("suppressed by %+v", info)
	}
}

func TestDirectiveTooFarAway(t *testing.T) {
	u := compile(t, "//keystroke:ignore *\n\nx := 1", frontend.DefaultOptions())
	d, _ := find(u, diag.SemaUnusedVar)
	if info := u.Suppression(d); info != nil {
		t.Fatalf("suppressed by %+v", info)
	}
}

func TestConfigSuppression(t *testing.T) {
	opts := frontend.DefaultOptions()
	opts.Suppress = []string{"SEM3003"}
	u := compile(t, "x := 1", opts)
	d, _ := find(u, diag.SemaUnusedVar)
	info := u.Suppression(d)
	if info == nil || info.Kind != diag.SuppressConfig {
		t.Fatalf("suppression = %+v", info)
	}
}

func TestParseDirective(t *testing.T) {
	cases := []struct {
		text   string
		codes  []string
		reason string
		ok     bool
	}{
		{"// plain", nil, "", false},
		{"//keystroke:ignored", nil, "", false},
		{"//keystroke:ignore", nil, "", true},
		{"//keystroke:ignore sem3003", []string{"SEM3003"}, "", true},
		{"//keystroke:ignore SEM3003,SEM3004 not yet", []string{"SEM3003", "SEM3004"}, "not yet", true},
	}
	for _, tc := range cases {
		codes, reason, ok := parseDirective(tc.text)
		if ok != tc.ok || reason != tc.reason || fmt.Sprint(codes) != fmt.Sprint(tc.codes) {
			t.Errorf("parseDirective(%q) = %v %q %v", tc.text, codes, reason, ok)
		}
	}
}

func TestCompileDeterministic(t *testing.T) {
	src := "a := b\nc := \"x"
	first := compile(t, src, frontend.DefaultOptions()).Diagnostics()
	second := compile(t, src, frontend.DefaultOptions()).Diagnostics()
	if len(first) != len(second) || len(first) == 0 {
		t.Fatalf("lengths %d/%d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("diagnostic %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestCompileMaxDiagnostics(t *testing.T) {
	opts := frontend.DefaultOptions()
	opts.MaxDiagnostics = 2
	u := compile(t, "a\nb\nc", opts)
	if n := len(u.Diagnostics()); n != 2 {
		t.Fatalf("diagnostics = %d, want 2", n)
	}
}

func TestCompileInvalidOptions(t *testing.T) {
	c := New(WithImporter(newFakeImporter()))
	_, err := c.Compile(context.Background(), "x", frontend.Options{DefaultImports: []string{""}})
	if !errors.Is(err, frontend.ErrInvocation) || !errors.Is(err, frontend.ErrInvalidOptions) {
		t.Fatalf("err = %v", err)
	}
}

func TestCompileRecoversPanic(t *testing.T) {
	imp := newFakeImporter()
	imp.panicOn = "fmt"
	_, err := New(WithImporter(imp)).Compile(context.Background(), "x := 1", frontend.DefaultOptions())
	if !errors.Is(err, frontend.ErrInvocation) {
		t.Fatalf("err = %v", err)
	}
}

func TestCompileMissingImportIsDiagnostic(t *testing.T) {
	opts := frontend.Options{DefaultImports: []string{"fmt", "nosuch"}}
	u := compile(t, "fmt.Println()", opts)
	if _, ok := find(u, diag.SemaError); !ok {
		t.Fatalf("diagnostics = %v", u.Diagnostics())
	}
}

func TestSemanticModelForeignTree(t *testing.T) {
	a := compile(t, "x := 1", frontend.DefaultOptions())
	b := compile(t, "x := 1", frontend.DefaultOptions())
	if _, err := b.SemanticModel(a.Tree()); !errors.Is(err, frontend.ErrForeignTree) {
		t.Fatalf("err = %v", err)
	}
	m, err := a.SemanticModel(a.Tree())
	if err != nil || m.Tree() != frontend.SyntaxTree(a.Tree()) {
		t.Fatalf("model = %v, %v", m, err)
	}
}

func TestModelQueries(t *testing.T) {
	src := "x := 1\ny := \"s\"\nfmt.Println(x, y)\n"
	u := compile(t, src, frontend.DefaultOptions())
	m := u.Model()

	path, exact := m.PathAt(0)
	if !exact || len(path) == 0 {
		t.Fatalf("PathAt(0) = %v, %v", path, exact)
	}
	id, ok := path[0].(*ast.Ident)
	if !ok || id.Name != "x" {
		t.Fatalf("innermost node = %T", path[0])
	}
	if _, ok := path[len(path)-1].(*ast.File); !ok {
		t.Errorf("path does not end with the file")
	}
	obj := m.ObjectOf(id)
	if obj == nil || obj.Name() != "x" {
		t.Fatalf("ObjectOf = %v", obj)
	}
	if typ := m.TypeOf(id); typ == nil || typ.String() != "int" {
		t.Errorf("TypeOf(x) = %v", typ)
	}

	if s := m.ScopeAt(len(src)); s == nil || s == m.Package().Scope() {
		t.Errorf("cursor inside main body resolved to %v", s)
	}

	names := func(objs []types.Object) map[string]bool {
		out := make(map[string]bool)
		for _, o := range objs {
			out[o.Name()] = true
		}
		return out
	}
	atEnd := names(m.VisibleAt(len(src)))
	for _, want := range []string{"x", "y", "fmt"} {
		if !atEnd[want] {
			t.Errorf("%s not visible at end: %v", want, atEnd)
		}
	}
	if atEnd["main"] {
		t.Errorf("synthesized main is visible")
	}
	atStart := names(m.VisibleAt(0))
	if atStart["x"] || atStart["y"] || !atStart["fmt"] {
		t.Errorf("visible at start = %v", atStart)
	}
}

func TestModelVisibleInnermostFirst(t *testing.T) {
	src := "x := 1\nif true {\n\tx := \"s\"\n\t_ = x\n\t\n}\n_ = x\n"
	u := compile(t, src, frontend.DefaultOptions())
	off := len("x := 1\nif true {\n\tx := \"s\"\n\t_ = x\n\t")
	var got types.Object
	for _, o := range u.Model().VisibleAt(off) {
		if o.Name() == "x" {
			got = o
			break
		}
	}
	if got == nil || got.Type().String() != "string" {
		t.Fatalf("inner x not preferred: %v", got)
	}
}

func TestTreeOffsets(t *testing.T) {
	u := compile(t, "x := 1\n_ = x", frontend.DefaultOptions())
	tree := u.Tree()
	for _, off := range []int{0, 3, 12} {
		if got := tree.Offset(tree.Pos(off)); got != off {
			t.Errorf("round trip %d -> %d", off, got)
		}
	}
	if got := tree.Offset(tree.Pos(99)); got != 12 {
		t.Errorf("offset past end = %d, want 12", got)
	}
	if tree.Offset(token.NoPos) != 0 {
		t.Errorf("NoPos offset")
	}
}

func TestImportCache(t *testing.T) {
	imp := newFakeImporter()
	c := New(WithImporter(imp))
	for range 3 {
		if _, err := c.Compile(context.Background(), "fmt.Println()", frontend.DefaultOptions()); err != nil {
			t.Fatal(err)
		}
	}
	if imp.calls != 1 {
		t.Errorf("base importer calls = %d, want 1", imp.calls)
	}
	st := c.Imports().Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Len != 1 {
		t.Errorf("stats = %+v", st)
	}

	if _, err := c.Imports().Import("nosuch"); err == nil {
		t.Fatalf("missing package imported")
	}
	if c.Imports().Stats().Len != 1 {
		t.Errorf("failure was cached")
	}
	c.Imports().Purge()
	if c.Imports().Stats().Len != 0 {
		t.Errorf("purge left entries")
	}
}

func TestClassify(t *testing.T) {
	syn := []struct {
		msg  string
		want diag.Code
	}{
		{"string literal not terminated", diag.SynUnterminatedString},
		{"raw string literal not terminated", diag.SynUnterminatedString},
		{"rune literal not terminated", diag.SynUnterminatedRune},
		{"comment not terminated", diag.SynUnterminatedComment},
		{"expected '}', found 'EOF'", diag.SynUnexpectedEOF},
		{"illegal character U+0040 '@'", diag.SynIllegalChar},
		{"expected ';', found x", diag.SynExpectedToken},
		{"something else", diag.SynError},
	}
	for _, tc := range syn {
		if got := syntaxCode(tc.msg); got != tc.want {
			t.Errorf("syntaxCode(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}

	sema := []struct {
		msg  string
		want diag.Code
	}{
		{"undefined: y", diag.SemaUndefined},
		{"declared and not used: x", diag.SemaUnusedVar},
		{`"fmt" imported and not used`, diag.SemaUnusedImport},
		{`"fmt" imported as f and not used`, diag.SemaUnusedImport},
		{"x.f undefined (type T has no field or method f)", diag.SemaMissingField},
		{"assignment mismatch: 2 variables but 1 value", diag.SemaAssignMismatch},
		{"no new variables on left side of :=", diag.SemaNoNewVars},
		{"x redeclared in this block", diag.SemaRedeclared},
		{"invalid operation: cannot call non-function x (variable of type int)", diag.SemaNotCallable},
		{"not enough arguments in call to f", diag.SemaArgCount},
		{"invalid operation: a + b (mismatched types int and string)", diag.SemaTypeMismatch},
		{"cannot use s (variable of type string) as int value in assignment", diag.SemaTypeMismatch},
		{"x (variable of type int) is not used", diag.SemaUnusedValue},
		{"division by zero", diag.SemaError},
	}
	for _, tc := range sema {
		if got := semaCode(tc.msg); got != tc.want {
			t.Errorf("semaCode(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}
