package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"keystroke/internal/analysis"
	"keystroke/internal/frontend"
	"keystroke/internal/observ"
	"keystroke/internal/prefix"
	"keystroke/internal/trace"
)

// Options configures Scan.
type Options struct {
	Frontend frontend.Options
	// Jobs limits how many inputs are walked at once; <= 0 means GOMAXPROCS.
	Jobs      int
	Timings   bool
	Normalize bool
	// From/To limit prefix lengths, see prefix.WithRange.
	From, To int
	// Observer, if set, sees every snapshot as soon as it is produced. It is
	// called from several goroutines when Jobs > 1.
	Observer SnapshotObserver
}

// SnapshotObserver receives snapshots of input #input while Scan runs.
type SnapshotObserver func(input int, snap *analysis.Snapshot)

// Result is the outcome of walking one input.
type Result struct {
	Input     Input
	Prefixes  int
	Snapshots []*analysis.Snapshot
	// Err is a frontend failure that stopped this input's walk early.
	Err    error
	Timing observ.Report
}

// Scan walks every strict prefix of every input. Inputs run concurrently,
// prefixes of one input strictly in order. A frontend failure stops only the
// input it happened in and is reported in its Result; the returned error is
// reserved for invalid options and cancellation.
func Scan(ctx context.Context, compiler frontend.Compiler, inputs []Input, opts Options) ([]Result, error) {
	analyzer, err := analysis.New(compiler, opts.Frontend, analysis.WithTimings(opts.Timings))
	if err != nil {
		return nil, err
	}

	span, ctx := trace.BeginCtx(ctx, trace.ScopeDriver, "scan")
	span.WithExtraInt("inputs", len(inputs))
	defer span.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			res, err := scanOne(gctx, analyzer, i, in, opts)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func scanOne(ctx context.Context, analyzer *analysis.Analyzer, idx int, in Input, opts Options) (Result, error) {
	span, ctx := trace.BeginCtx(ctx, trace.ScopeDriver, "input")
	span.WithExtra("name", in.Name)

	it := prefix.Iterate(ctx, in.Text, analyzer,
		prefix.WithNormalize(opts.Normalize),
		prefix.WithRange(opts.From, opts.To))

	res := Result{Input: in, Prefixes: it.Len(), Snapshots: make([]*analysis.Snapshot, 0, it.Len())}
	var reports []observ.Report
	for it.Next() {
		snap := it.Snapshot()
		res.Snapshots = append(res.Snapshots, snap)
		if opts.Timings {
			reports = append(reports, snap.Timing())
		}
		if opts.Observer != nil {
			opts.Observer(idx, snap)
		}
	}
	res.Timing = observ.Aggregate(reports)

	err := it.Err()
	span.WithExtraInt("snapshots", len(res.Snapshots))
	switch {
	case err == nil:
		span.End("")
		return res, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		span.End("cancelled")
		return res, err
	default:
		span.End("failed")
		res.Err = fmt.Errorf("%s: %w", in.Name, err)
		return res, nil
	}
}
