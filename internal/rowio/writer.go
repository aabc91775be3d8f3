package rowio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by [NewEncoder].
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// ErrUnknownFormat is returned by [NewEncoder] for an unsupported format.
var ErrUnknownFormat = errors.New("rowio: unknown output format")

// Row is one output row. Nil Bands is a null row; an empty non-nil slice is
// a row with zero bands.
type Row struct {
	Index int
	Bands []uint64
}

// Null reports whether the row is null.
func (r Row) Null() bool {
	return r.Bands == nil
}

// Encoder writes rows in input order.
type Encoder interface {
	// Encode writes rows. Calls must arrive in row order.
	Encode(rows []Row) error
	// Flush writes anything buffered.
	Flush() error
}

// NewEncoder returns an Encoder for format writing to w.
func NewEncoder(w io.Writer, format string) (Encoder, error) {
	switch format {
	case FormatJSON, "":
		return &jsonEncoder{enc: json.NewEncoder(w)}, nil
	case FormatYAML:
		return &yamlEncoder{w: w}, nil
	case FormatTable:
		return newTableEncoder(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// jsonEncoder writes one JSON array, or null, per line.
type jsonEncoder struct {
	enc *json.Encoder
}

func (e *jsonEncoder) Encode(rows []Row) error {
	for _, row := range rows {
		err := e.enc.Encode(row.Bands)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", row.Index, err)
		}
	}

	return nil
}

func (e *jsonEncoder) Flush() error { return nil }

// yamlEncoder streams a single YAML sequence, one item per row.
type yamlEncoder struct {
	w io.Writer
}

func (e *yamlEncoder) Encode(rows []Row) error {
	for _, row := range rows {
		out, err := yaml.Marshal([]any{row.Bands})
		if err != nil {
			return fmt.Errorf("encode row %d: %w", row.Index, err)
		}

		_, err = e.w.Write(out)
		if err != nil {
			return fmt.Errorf("write row %d: %w", row.Index, err)
		}
	}

	return nil
}

func (e *yamlEncoder) Flush() error { return nil }

// tableEncoder buffers rows and renders them on Flush.
type tableEncoder struct {
	w     io.Writer
	tbl   table.Writer
	rows  int
	nulls int
	bands int
	null  *color.Color
}

func newTableEncoder(w io.Writer) *tableEncoder {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.AppendHeader(table.Row{"row", "bands"})

	return &tableEncoder{w: w, tbl: tbl, null: color.New(color.Faint)}
}

func (e *tableEncoder) Encode(rows []Row) error {
	for _, row := range rows {
		e.rows++

		if row.Null() {
			e.nulls++
			e.tbl.AppendRow(table.Row{row.Index, e.null.Sprint("null")})

			continue
		}

		e.bands += len(row.Bands)
		e.tbl.AppendRow(table.Row{row.Index, formatBands(row.Bands)})
	}

	return nil
}

func (e *tableEncoder) Flush() error {
	e.tbl.AppendFooter(table.Row{
		"Total",
		fmt.Sprintf("%s rows, %s null, %s bands",
			humanize.Comma(int64(e.rows)), humanize.Comma(int64(e.nulls)), humanize.Comma(int64(e.bands))),
	})

	_, err := fmt.Fprintln(e.w, e.tbl.Render())
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return nil
}

func formatBands(bands []uint64) string {
	parts := make([]string, len(bands))
	for i, b := range bands {
		parts[i] = strconv.FormatUint(b, 16)
	}

	return strings.Join(parts, " ")
}
