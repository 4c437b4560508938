// Package output provides basic info panel writers.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/vibe-panel/internal/basicinfo"
)

// PanelWriter writes rendered panels.
type PanelWriter interface {
	Write(v *basicinfo.View) error
	Flush() error
}

// Pill groups as written by the tab writer.
const (
	groupBefore = "before"
	groupVue    = "vue"
	groupAfter  = "after"
	groupLink   = "link"
	groupTable  = "transcript"
)

// cellEscaper keeps annotation values on one tab-delimited line.
var cellEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// TabWriter writes panels in tab-delimited format, one pill per line. An open
// transcript table adds one "transcript" line per row, keyed by transcript id,
// with the protein change, the classification class and the row's
// canonical/selected marks in the Link column.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Variant",
			"Group",
			"Key",
			"Value",
			"Category",
			"Link",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes the pills of a panel. A nil panel writes nothing.
func (tw *TabWriter) Write(v *basicinfo.View) error {
	if v == nil {
		return nil
	}
	for _, p := range v.Before {
		if err := tw.row(v.Variant, groupBefore, string(p.Key), p.Text(), p.Category, p.Link); err != nil {
			return err
		}
	}
	if v.Vue != nil {
		if err := tw.row(v.Variant, groupVue, "revisedProteinEffect", v.Vue.RevisedProteinEffect, "default", v.Vue.HomeURL); err != nil {
			return err
		}
		if err := tw.row(v.Variant, groupVue, "revisedVariantClassification", v.Vue.RevisedVariantClassification, v.Vue.ClassName, v.Vue.HomeURL); err != nil {
			return err
		}
	}
	for _, p := range v.After {
		if err := tw.row(v.Variant, groupAfter, string(p.Key), p.Text(), p.Category, p.Link); err != nil {
			return err
		}
	}
	if err := tw.row(v.Variant, groupLink, "json", "JSON", "-", v.JSONLink); err != nil {
		return err
	}
	if !v.ShowTranscriptTable {
		return nil
	}
	for _, r := range v.Transcripts {
		if err := tw.row(v.Variant, groupTable, r.TranscriptID, r.HgvspShort, r.ClassName, rowMarks(r)); err != nil {
			return err
		}
	}
	return nil
}

func rowMarks(r basicinfo.TranscriptRow) string {
	var marks []string
	if r.Canonical {
		marks = append(marks, "canonical")
	}
	if r.Selected {
		marks = append(marks, "selected")
	}
	return strings.Join(marks, ",")
}

func (tw *TabWriter) row(values ...string) error {
	for i, val := range values {
		if val == "" {
			values[i] = "-"
			continue
		}
		values[i] = cellEscaper.Replace(val)
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
