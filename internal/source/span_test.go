package source

import "testing"

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name string
		span Span
		n    uint32
		want Span
	}{
		{"basic", Span{File: 1, Start: 20, End: 25}, 5, Span{File: 1, Start: 15, End: 20}},
		{"zero", Span{Start: 3, End: 4}, 0, Span{Start: 3, End: 4}},
		{"saturates", Span{Start: 3, End: 10}, 5, Span{Start: 0, End: 5}},
		{"both saturate", Span{Start: 1, End: 2}, 9, Span{Start: 0, End: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.ShiftLeft(tt.n); got != tt.want {
				t.Errorf("ShiftLeft(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestSpan_Clamp(t *testing.T) {
	tests := []struct {
		span  Span
		limit uint32
		want  Span
	}{
		{Span{Start: 2, End: 4}, 10, Span{Start: 2, End: 4}},
		{Span{Start: 2, End: 40}, 10, Span{Start: 2, End: 10}},
		{Span{Start: 20, End: 40}, 10, Span{Start: 10, End: 10}},
		{Span{Start: 5, End: 1}, 10, Span{Start: 5, End: 5}},
	}
	for _, tt := range tests {
		if got := tt.span.Clamp(tt.limit); got != tt.want {
			t.Errorf("%v.Clamp(%d) = %v, want %v", tt.span, tt.limit, got, tt.want)
		}
	}
}

func TestSpan_ContainsAndCover(t *testing.T) {
	s := Span{Start: 2, End: 5}
	if !s.Contains(2) || !s.Contains(4) || s.Contains(5) {
		t.Errorf("Contains is not half-open for %v", s)
	}
	empty := Span{Start: 3, End: 3}
	if !empty.Contains(3) || empty.Contains(4) {
		t.Errorf("empty span must contain only its start")
	}
	if got := s.Cover(Span{Start: 4, End: 9}); got != (Span{Start: 2, End: 9}) {
		t.Errorf("Cover = %v", got)
	}
	if got := s.Cover(Span{File: 1, Start: 0, End: 9}); got != s {
		t.Errorf("Cover across files must be a no-op, got %v", got)
	}
	if s.Len() != 3 || (Span{Start: 4, End: 1}).Len() != 0 {
		t.Errorf("unexpected Len")
	}
	if s.String() != "0:2-5" {
		t.Errorf("String = %q", s.String())
	}
}
