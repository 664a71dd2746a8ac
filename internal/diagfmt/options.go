package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints paths as they were given.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics and snapshot summaries.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string // для PathModeRelative
	Width    int    // максимальная ширина префикса в сводке, 0 - не ограничено

	ShowNotes      bool
	ShowSuppressed bool
	ShowSource     bool
}

// ReportOpts configures JSON and MessagePack snapshot reports.
type ReportOpts struct {
	IncludePositions bool // добавить line/col
	IncludeTimings   bool
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода диагностик, 0 - всё
}
