package csv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Open returns a source for the file at path, chosen by extension.
func Open(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := NewSource(f, path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return src, nil
}

// NewSource wraps r according to the extension of name. Closing the source
// closes r when r is an io.Closer.
func NewSource(r io.Reader, name string) (Source, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		x, err := NewXLSXReader(r, "")
		if err != nil {
			return nil, err
		}
		if c, ok := r.(io.Closer); ok {
			return closingSource{Source: x, closer: c}, nil
		}
		return x, nil
	default:
		return NewReader(r)
	}
}

type closingSource struct {
	Source
	closer io.Closer
}

func (s closingSource) Close() error {
	err := s.Source.Close()
	if cerr := s.closer.Close(); err == nil {
		err = cerr
	}
	return err
}
