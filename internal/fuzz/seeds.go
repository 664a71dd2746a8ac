package fuzztests

import (
	"testing"
)

const (
	// каждый префикс компилируется заново, поэтому вход держим коротким
	maxFuzzInput = 256
)

var snippetSeeds = []string{
	"",
	"x := 1",
	"x := 1\nx++",
	`s := "ab`,
	"fmt.Println(\"hi\")",
	"for i := 0; i < 3; i++ {\n\tfmt.Println(i)\n}",
	"if x := f(); x > 0 {\n} else {\n}",
	"type T struct{ A int }\nvar t T\n_ = t.A",
	"f := func(a, b int) int { return a + b }\n_ = f(1, 2)",
	"switch v := any(1).(type) {\ncase int:\n\t_ = v\n}",
	"m := map[string][]int{\"a\": {1, 2}}\n_ = m",
	"ch := make(chan int)\ngo func() { ch <- 1 }()\n<-ch",
	"//keystroke:ignore SEM3003 scratch\nunused := 1",
	"/* unterminated",
	"'x",
	"x := `raw\nstring`",
	"héllo := \"wörld\"\n_ = héllo",
	"\xff\xfe x",
}

func addSeeds(f *testing.F) {
	for _, s := range snippetSeeds {
		f.Add([]byte(s))
	}
}

func clampInput(src []byte) []byte {
	if len(src) <= maxFuzzInput {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxFuzzInput]...)
}
