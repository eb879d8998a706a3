// Package encoder renders a synthesized dataset as CSV text.
package encoder

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/leo-tosi/TDG/internal/models"
)

type Encoding string

const (
	// Verbatim joins cells with commas and writes them unescaped.
	Verbatim Encoding = "verbatim"
	// RFC4180 quotes cells containing delimiters, quotes or newlines.
	RFC4180 Encoding = "rfc4180"
)

func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(s))) {
	case "", Verbatim:
		return Verbatim, nil
	case RFC4180, "quoted":
		return RFC4180, nil
	}
	return "", fmt.Errorf("unknown csv encoding %q", s)
}

func header(columns []models.ColumnDescriptor) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

// Encode writes the header (column names in declaration order) followed by
// one line per row. The last row has no trailing newline.
func Encode(data models.Dataset, columns []models.ColumnDescriptor) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(header(columns), ","))
	buf.WriteByte('\n')
	for i, row := range data {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Join(row, ","))
	}
	return buf.Bytes()
}

func EncodeQuoted(data models.Dataset, columns []models.ColumnDescriptor) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header(columns)); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func EncodeWith(enc Encoding, data models.Dataset, columns []models.ColumnDescriptor) ([]byte, error) {
	switch enc {
	case "", Verbatim:
		return Encode(data, columns), nil
	case RFC4180:
		return EncodeQuoted(data, columns)
	}
	return nil, fmt.Errorf("unknown csv encoding %q", enc)
}
