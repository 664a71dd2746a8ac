package frontend

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"keystroke/internal/diag"
)

// DefaultImport is the package pre-imported when no imports are configured.
const DefaultImport = "fmt"

// Options configures one compilation. The same Options value is used for
// every prefix of a scan.
type Options struct {
	// DefaultImports are injected into the compilation context before
	// analysis and never appear in the analyzed text.
	DefaultImports []string
	// Suppress lists diagnostic IDs (e.g. "SEM3003") silenced by configuration.
	// "*" silences everything.
	Suppress []string
	// MaxDiagnostics caps diagnostics per unit; 0 means unlimited.
	MaxDiagnostics int
}

// DefaultOptions pre-imports DefaultImport, like a scripting host with one
// implicit namespace.
func DefaultOptions() Options {
	return Options{DefaultImports: []string{DefaultImport}}
}

// Validate reports malformed options. Errors wrap ErrInvalidOptions.
func (o Options) Validate() error {
	if o.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: max diagnostics must be >= 0, got %d", ErrInvalidOptions, o.MaxDiagnostics)
	}
	seen := make(map[string]struct{}, len(o.DefaultImports))
	for _, imp := range o.DefaultImports {
		if err := validateImportPath(imp); err != nil {
			return fmt.Errorf("%w: import %q: %v", ErrInvalidOptions, imp, err)
		}
		if _, dup := seen[imp]; dup {
			return fmt.Errorf("%w: duplicate import %q", ErrInvalidOptions, imp)
		}
		seen[imp] = struct{}{}
	}
	for _, id := range o.Suppress {
		if id == "*" {
			continue
		}
		if _, ok := diag.ParseCode(id); !ok {
			return fmt.Errorf("%w: unknown diagnostic id %q in suppress list", ErrInvalidOptions, id)
		}
	}
	return nil
}

// Suppressed reports whether the code is silenced by the Suppress list.
func (o Options) Suppressed(code diag.Code) bool {
	id := code.ID()
	return slices.ContainsFunc(o.Suppress, func(s string) bool { return s == "*" || s == id })
}

// Clone returns options that share no slices with o.
func (o Options) Clone() Options {
	o.DefaultImports = slices.Clone(o.DefaultImports)
	o.Suppress = slices.Clone(o.Suppress)
	return o
}

// validateImportPath follows the go/build rules for import paths closely
// enough for stdlib and module paths.
func validateImportPath(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if strings.TrimSpace(p) != p {
		return fmt.Errorf("surrounding whitespace")
	}
	if strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") || strings.Contains(p, "//") {
		return fmt.Errorf("malformed slashes")
	}
	for _, r := range p {
		if r < 0x21 || r == 0x7f || strings.ContainsRune("!\"#$%&'()*,:;<=>?[\\]^`{|}", r) {
			return fmt.Errorf("invalid character %s", strconv.QuoteRune(r))
		}
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return fmt.Errorf("relative segment %q", seg)
		}
	}
	return nil
}
