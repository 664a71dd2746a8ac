package driver

import (
	"fmt"
	"io"
	"strings"

	"keystroke/internal/source"
)

// Имена виртуальных входов.
const (
	StdinName   = "<stdin>"
	SnippetName = "<snippet>"
)

// Input is one source to scan.
type Input struct {
	Name string
	Text string
	File source.FileID
}

// LoadInputs reads paths into one FileSet; "-" reads stdin. BOM and CRLF are
// normalized the same way for files and stdin.
func LoadInputs(fs *source.FileSet, paths []string, stdin io.Reader) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		var (
			id  source.FileID
			err error
		)
		if path == "-" {
			if stdin == nil {
				return nil, fmt.Errorf("stdin is not available")
			}
			id, err = fs.LoadReader(StdinName, stdin)
		} else {
			id, err = fs.Load(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		f := fs.Get(id)
		inputs = append(inputs, Input{Name: f.Path, Text: string(f.Content), File: id})
	}
	return inputs, nil
}

// SnippetInput wraps text given on the command line.
func SnippetInput(fs *source.FileSet, text string) (Input, error) {
	id, err := fs.LoadReader(SnippetName, strings.NewReader(text))
	if err != nil {
		return Input{}, err
	}
	return Input{Name: SnippetName, Text: string(fs.Get(id).Content), File: id}, nil
}
