// Package output renders command results as terminal tables, markdown or
// JSON depending on where the output goes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// ParseMode maps a configured output value to a Mode. Unknown values are errors.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return m, nil
	case "md":
		return ModeMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want auto, text, markdown or json)", s)
	}
}

// Renderer writes command output in one mode.
type Renderer struct {
	out    io.Writer
	err    io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer writing results to out and notices to errOut.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{out: out, err: errOut, mode: mode}
	if r.EffectiveMode() == ModeText {
		r.styles = DefaultStyles()
	} else {
		r.styles = plainStyles()
	}
	return r
}

// Styles returns the styles for the effective mode. Only text output is styled.
func (r *Renderer) Styles() *Styles { return r.styles }

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeMarkdown
}

// Printf writes formatted text to the result writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Notice writes a muted status line to the notice writer, keeping JSON
// results on the result writer clean.
func (r *Renderer) Notice(format string, args ...any) {
	_, _ = fmt.Fprintln(r.err, r.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

// Status renders a run status with its success or failure style.
func (r *Renderer) Status(ok bool) string {
	if ok {
		return r.styles.StatusSuccess.String()
	}
	return r.styles.StatusFailed.String()
}

// Table is a titled grid of values.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]any
}

// Append adds a row.
func (t *Table) Append(values ...any) {
	t.Rows = append(t.Rows, values)
}

// Render writes t in the effective mode.
func (r *Renderer) Render(t *Table) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.renderJSON(t)
	case ModeMarkdown:
		r.renderMarkdown(t)
	default:
		r.renderText(t)
	}
	return nil
}

func (r *Renderer) writer(t *Table) table.Writer {
	w := table.NewWriter()
	w.SetOutputMirror(r.out)
	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	w.AppendHeader(header)
	for _, row := range t.Rows {
		w.AppendRow(table.Row(row))
	}
	return w
}

func (r *Renderer) renderText(t *Table) {
	w := r.writer(t)
	w.SetStyle(table.StyleLight)
	if t.Title != "" {
		w.SetTitle(t.Title)
	}
	w.Render()
	if len(t.Rows) == 0 {
		r.Printf("(0 rows)\n")
	}
}

func (r *Renderer) renderMarkdown(t *Table) {
	if t.Title != "" {
		r.Printf("## %s\n\n", t.Title)
	}
	if len(t.Rows) == 0 {
		r.Printf("(0 rows)\n\n")
		return
	}
	r.writer(t).RenderMarkdown()
	r.Printf("\n")
}

func (r *Renderer) renderJSON(t *Table) error {
	records := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(row) {
				rec[c] = row[i]
			}
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
