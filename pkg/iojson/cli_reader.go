package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// FileReader reads a document of type T from the --file flag or stdin. The
// input may be YAML or JSON.
type FileReader[T any] struct {
	fileFlagValue string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to YAML or JSON file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Path returns the --file value, empty when reading stdin.
func (fr *FileReader[T]) Path() string {
	return fr.fileFlagValue
}

func (fr *FileReader[T]) Read() (T, error) {
	var zero T

	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return zero, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Decode[T](f)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return zero, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe input")
	}
	return Decode[T](os.Stdin)
}

// Decode reads one YAML or JSON document from r.
func Decode[T any](r io.Reader) (T, error) {
	var input T
	if err := yaml.NewDecoder(r).Decode(&input); err != nil {
		if err == io.EOF {
			return input, fmt.Errorf("decode input: empty document")
		}
		return input, fmt.Errorf("decode input: %w", err)
	}
	return input, nil
}
