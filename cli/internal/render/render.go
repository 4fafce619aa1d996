// Package render writes command results as a table, JSON or YAML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
	"sigs.k8s.io/yaml"
)

type Encoding string

const (
	EncodingTable Encoding = "table"
	EncodingJSON  Encoding = "json"
	EncodingYAML  Encoding = "yaml"
)

var allEncodings = []Encoding{EncodingTable, EncodingJSON, EncodingYAML}

func Encodings() []string {
	out := make([]string, len(allEncodings))
	for i, e := range allEncodings {
		out[i] = string(e)
	}
	return out
}

// Tabular is a result that can be shown as a table.
type Tabular interface {
	Header() table.Row
	Rows() []table.Row
}

// Write encodes v to out. Table output requires v to be Tabular.
func Write(out io.Writer, encoding Encoding, v any) error {
	var (
		data []byte
		err  error
	)
	switch encoding {
	case EncodingJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case EncodingYAML:
		data, err = yaml.Marshal(v)
	case EncodingTable:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("%T cannot be rendered as table", v)
		}
		data = Table(out, t)
	default:
		err = fmt.Errorf("unknown output format: %q", encoding)
	}
	if err != nil {
		return fmt.Errorf("encoding output as %q failed: %w", encoding, err)
	}
	_, err = io.Copy(out, bytes.NewReader(data))
	return err
}

// Table renders t without borders. On a terminal the table spans its width.
func Table(out io.Writer, t Tabular) []byte {
	var buf bytes.Buffer
	w := table.NewWriter()
	w.SetOutputMirror(&buf)
	w.AppendHeader(t.Header())
	w.AppendRows(t.Rows())
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Format.Header = text.FormatUpper
	if width, ok := terminalWidth(out); ok {
		style.Size.WidthMax = width
	}
	w.SetStyle(style)
	w.Render()
	return buf.Bytes()
}

func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, false
	}
	return width, true
}
