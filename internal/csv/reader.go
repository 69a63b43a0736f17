// Package csv reads import files into dataimport records.
//
// Input is decoded on the fly: a UTF-8 or UTF-16 byte order mark selects
// the encoding and is dropped, invalid UTF-8 becomes U+FFFD, and every
// header and cell is NFC normalised so visually equal keys compare equal.
// Headers are lowercased; cells are trimmed. Fully empty lines are skipped.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("empty file")

// Source is a row source with a header.
type Source interface {
	dataimport.Source
	Header() []string
	Close() error
}

// Reader streams records from CSV input.
type Reader struct {
	cr     *csv.Reader
	closer io.Closer
	header []string
	line   int
}

// NewReader reads the header row from r. If r is an io.Closer, Close closes it.
func NewReader(r io.Reader) (*Reader, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	rd := &Reader{cr: cr}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv header: %w", err)
		}
		if isEmptyRow(rec) {
			continue
		}
		rd.header = NormalizeHeader(rec)
		if err := checkHeader(rd.header); err != nil {
			return nil, err
		}
		rd.line, _ = cr.FieldPos(0)
		return rd, nil
	}
}

// Header returns the normalised header columns.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next non-empty record, or io.EOF.
func (r *Reader) Next() (dataimport.Record, error) {
	for {
		row, err := r.cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		r.line, _ = r.cr.FieldPos(0)
		if isEmptyRow(row) {
			continue
		}
		return makeRecord(r.header, row), nil
	}
}

// Line returns the input line of the last record returned by Next.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// NormalizeHeader lowercases, cleans and NFC normalises header cells.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(CleanCell(h))
	}
	return out
}

// CleanCell trims whitespace, drops an Excel text wrapper (="...") and NFC
// normalises the result. Quotes that are part of the value are kept;
// encoding/csv has already removed the field quoting.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}
	return norm.NFC.String(s)
}

// checkHeader rejects a column that appears twice after normalisation, so
// "URL.en_US" and "url.en_us" cannot silently overwrite each other. Blank
// header cells are ignored.
func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if h == "" {
			continue
		}
		if seen[h] {
			return fmt.Errorf("duplicate column %q", h)
		}
		seen[h] = true
	}
	return nil
}

// RequireColumns reports the first column of want missing from header.
func RequireColumns(header []string, want ...string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, col := range want {
		if !have[col] {
			return fmt.Errorf("missing required column %q", col)
		}
	}
	return nil
}

func makeRecord(header, row []string) dataimport.Record {
	rec := make(dataimport.Record, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(row) {
			rec[col] = CleanCell(row[i])
		} else {
			rec[col] = ""
		}
	}
	return rec
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
