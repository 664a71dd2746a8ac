// Package prefix walks the strict prefixes of a source text, shortest first,
// and analyzes each one on demand.
//
// For a source of N characters the walk yields prefixes of 1, 2, ..., N-1
// characters. The full text itself is never analyzed, so a one-character
// source yields nothing. Characters are Unicode code points; an invalid
// UTF-8 byte counts as one character.
package prefix

import (
	"context"
	"iter"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"keystroke/internal/analysis"
)

// Analyzer produces the snapshot of one prefix.
type Analyzer interface {
	Analyze(ctx context.Context, prefix string) (*analysis.Snapshot, error)
}

type config struct {
	normalize bool
	from, to  int
}

// Option configures an iteration.
type Option func(*config)

// WithNormalize converts the source to NFC before slicing, the form editors
// usually deliver typed text in.
func WithNormalize(enabled bool) Option {
	return func(c *config) { c.normalize = enabled }
}

// WithRange limits the walk to prefix lengths in [from, to]. Bounds are
// clamped to [1, N-1]; to <= 0 means N-1.
func WithRange(from, to int) Option {
	return func(c *config) { c.from, c.to = from, to }
}

// Iterator is a lazy, single-use walk over prefixes. It is not safe for
// concurrent use; independent iterators share nothing.
type Iterator struct {
	ctx      context.Context
	analyzer Analyzer
	src      string
	bounds   []int // bounds[i] is the byte length of the i-character prefix
	first    int
	next     int // next prefix length to analyze
	last     int // last prefix length, inclusive
	cur      *analysis.Snapshot
	err      error
	done     bool
}

// Iterate prepares a walk over src. Nothing is analyzed until Next is called.
func Iterate(ctx context.Context, src string, a Analyzer, opts ...Option) *Iterator {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.normalize {
		src = norm.NFC.String(src)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	bounds := runeBounds(src)
	n := len(bounds) - 1 // число символов
	first, last := clampRange(cfg.from, cfg.to, n)
	return &Iterator{
		ctx:      ctx,
		analyzer: a,
		src:      src,
		bounds:   bounds,
		first:    first,
		next:     first,
		last:     last,
		done:     first > last || a == nil,
	}
}

func clampRange(from, to, n int) (int, int) {
	first, last := 1, n-1
	if from > first {
		first = from
	}
	if to > 0 && to < last {
		last = to
	}
	return first, last
}

// runeBounds returns byte offsets of every character boundary, starting at
// 0 and ending at len(s).
func runeBounds(s string) []int {
	bounds := make([]int, 1, len(s)+1)
	for off := 0; off < len(s); {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
		bounds = append(bounds, off)
	}
	return bounds
}

// Next analyzes the next prefix. It returns false once the walk is over,
// after a frontend failure, or when ctx is done; Err tells which.
// Cancellation is observed only between prefixes.
func (it *Iterator) Next() bool {
	if it.done {
		it.cur = nil
		return false
	}
	if err := it.ctx.Err(); err != nil {
		return it.stop(err)
	}
	snap, err := it.analyzer.Analyze(it.ctx, it.src[:it.bounds[it.next]])
	if err != nil {
		return it.stop(err)
	}
	it.cur = snap
	it.next++
	if it.next > it.last {
		it.done = true
	}
	return true
}

func (it *Iterator) stop(err error) bool {
	it.err = err
	it.cur = nil
	it.done = true
	return false
}

// Snapshot returns the snapshot produced by the last successful Next.
func (it *Iterator) Snapshot() *analysis.Snapshot { return it.cur }

// Err returns the error that ended the walk early, if any.
func (it *Iterator) Err() error { return it.err }

// Len is the number of prefixes the walk covers when it runs to completion.
func (it *Iterator) Len() int {
	if it.analyzer == nil {
		return 0
	}
	return max(it.last-it.first+1, 0)
}

// Source is the text being walked, after normalization.
func (it *Iterator) Source() string { return it.src }

// Seq adapts a walk to range-over-func. A failure is yielded once as
// (nil, err) after the last good snapshot. The sequence is single-use like
// the Iterator beneath it: ranging a second time yields nothing.
func Seq(ctx context.Context, src string, a Analyzer, opts ...Option) iter.Seq2[*analysis.Snapshot, error] {
	it := Iterate(ctx, src, a, opts...)
	return func(yield func(*analysis.Snapshot, error) bool) {
		for it.Next() {
			if !yield(it.Snapshot(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			it.err = nil
			yield(nil, err)
		}
	}
}

// Prefixes lists the strict prefixes of src, shortest first, without
// analyzing them.
func Prefixes(src string) []string {
	bounds := runeBounds(src)
	if len(bounds) < 3 {
		return nil
	}
	out := make([]string, 0, len(bounds)-2)
	for _, b := range bounds[1 : len(bounds)-1] {
		out = append(out, src[:b])
	}
	return out
}

// Count is the number of strict prefixes of src.
func Count(src string) int {
	return max(utf8.RuneCountInString(src)-1, 0)
}

// At returns the first n characters of src. Unlike the walk it accepts the
// full text; ok is false when n is outside [0, N].
func At(src string, n int) (string, bool) {
	if n < 0 {
		return "", false
	}
	bounds := runeBounds(src)
	if n >= len(bounds) {
		return "", false
	}
	return src[:bounds[n]], true
}
