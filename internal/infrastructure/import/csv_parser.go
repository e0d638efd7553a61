package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// Parser reads a CSV file into header-keyed rows. It strips a UTF-8 BOM,
// rejects non-UTF-8 content and tolerates rows with missing trailing fields.
type Parser struct {
	reader     *csv.Reader
	headers    []string
	headerMap  map[string]int
	currentRow int
}

// NewParser creates a parser over a reader
func NewParser(r io.Reader) (*Parser, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}
	if !utf8.Valid(head) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	return &Parser{
		reader:    reader,
		headerMap: make(map[string]int),
	}, nil
}

// NewParserFromBytes creates a parser over a byte slice
func NewParserFromBytes(data []byte) (*Parser, error) {
	return NewParser(bytes.NewReader(data))
}

// ParseHeader reads the header row
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, header := range record {
		header = strings.TrimSpace(header)
		p.headers[i] = header
		p.headerMap[header] = i
	}
	p.currentRow = 1
	return nil
}

// MissingHeaders returns the required headers not present in the file
func (p *Parser) MissingHeaders(required []string) []string {
	var missing []string
	for _, header := range required {
		if _, ok := p.headerMap[header]; !ok {
			missing = append(missing, header)
		}
	}
	return missing
}

// Row is one parsed data row keyed by header name
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadAll reads every remaining data row, skipping fully empty ones
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		record, err := p.reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		p.currentRow++
		if err != nil {
			return rows, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
		}

		row := &Row{
			LineNumber: p.currentRow,
			Data:       make(map[string]string, len(p.headers)),
		}
		for i, header := range p.headers {
			if i < len(record) {
				row.Data[header] = strings.TrimSpace(record[i])
			} else {
				row.Data[header] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
}
