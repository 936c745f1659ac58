// internal/adapters/excel/codec.go
package excel

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/mcanales/floreria-be/internal/core/ports"
)

// Codec encodes and decodes the report workbook with tealeg/xlsx. Header
// strings pass through untouched in both directions so files produced by
// older exports keep importing.
type Codec struct {
	logger *slog.Logger
}

// Statically assert that *Codec implements the ReportCodec interface.
var _ ports.ReportCodec = (*Codec)(nil)

// NewCodec creates a new workbook codec
func NewCodec(logger *slog.Logger) *Codec {
	return &Codec{
		logger: logger.With(slog.String("adapter", "excel")),
	}
}

// Encode writes the sheets into a single .xlsx workbook in memory
func (c *Codec) Encode(sheets []ports.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to encode")
	}

	file := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := file.AddSheet(s.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to add worksheet %q: %w", s.Name, err)
		}

		headerRow := sheet.AddRow()
		for _, header := range s.Header {
			cell := headerRow.AddCell()
			cell.Value = header
			cell.GetStyle().Font.Bold = true
		}

		for _, row := range s.Rows {
			dataRow := sheet.AddRow()
			for _, value := range row {
				dataRow.AddCell().Value = value
			}
		}

		// Column numbers are 1-based in xlsx/v3
		for i := range s.Header {
			width := 18
			if i == 0 {
				width = 28
			}
			sheet.SetColWidth(i+1, i+1, float64(width))
		}
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook to buffer: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decode reads every sheet of the workbook into header-keyed rows. The
// first non-empty row of each sheet is taken as its header.
func (c *Codec) Decode(data []byte) (map[string][]ports.Row, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheets := make(map[string][]ports.Row, len(file.Sheets))
	for _, sheet := range file.Sheets {
		var header []string
		var rows []ports.Row

		err := sheet.ForEachRow(func(r *xlsx.Row) error {
			values := cellValues(r)
			if len(values) == 0 {
				return nil
			}
			if header == nil {
				header = values
				return nil
			}
			row := make(ports.Row, len(header))
			for i, key := range header {
				if key == "" {
					continue
				}
				if i < len(values) {
					row[key] = values[i]
				}
			}
			rows = append(rows, row)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet.Name, err)
		}

		sheets[sheet.Name] = rows
	}
	return sheets, nil
}

// cellValues collects the trimmed cell strings of a row, dropping trailing
// empties so blank rows decode to nothing
func cellValues(r *xlsx.Row) []string {
	var values []string
	last := -1
	for i := 0; i < r.Sheet.MaxCol; i++ {
		cell := r.GetCell(i)
		value := ""
		if cell != nil {
			value = strings.TrimSpace(cell.String())
		}
		values = append(values, value)
		if value != "" {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	return values[:last+1]
}
