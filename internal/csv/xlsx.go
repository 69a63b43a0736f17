package csv

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

// XLSXReader streams records from one sheet of an .xlsx workbook, with the
// same header and cell handling as Reader.
type XLSXReader struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
}

// NewXLSXReader opens the workbook in r and reads the header from sheet, or
// from the first sheet when sheet is empty.
func NewXLSXReader(r io.Reader, sheet string) (*XLSXReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open sheet %q: %w", sheet, err)
	}

	x := &XLSXReader{file: f, rows: rows}
	for x.rows.Next() {
		x.line++
		cols, err := x.rows.Columns()
		if err != nil {
			x.Close()
			return nil, fmt.Errorf("read header: %w", err)
		}
		if isEmptyRow(cols) {
			continue
		}
		x.header = NormalizeHeader(cols)
		if err := checkHeader(x.header); err != nil {
			x.Close()
			return nil, err
		}
		return x, nil
	}

	x.Close()
	return nil, ErrEmptyFile
}

func (x *XLSXReader) Header() []string {
	return x.header
}

func (x *XLSXReader) Next() (dataimport.Record, error) {
	for x.rows.Next() {
		x.line++
		cols, err := x.rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", x.line, err)
		}
		if isEmptyRow(cols) {
			continue
		}
		return makeRecord(x.header, cols), nil
	}
	if err := x.rows.Error(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (x *XLSXReader) Line() int {
	return x.line
}

func (x *XLSXReader) Close() error {
	if x.rows != nil {
		x.rows.Close()
	}
	return x.file.Close()
}
