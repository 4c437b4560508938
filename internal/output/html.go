package output

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/inodb/vibe-panel/internal/basicinfo"
)

// Links are the panel-local hrefs an HTML panel needs: the toggle control and
// the transcript table's select links.
type Links struct {
	Toggle     string
	Transcript func(transcriptID string) string
}

func (l Links) transcriptHref(id string) string {
	if l.Transcript != nil {
		return l.Transcript(id)
	}
	return "?transcript=" + url.QueryEscape(id)
}

const panelTemplate = `{{define "pill"}}{{if .Link}}<span class="data-pills {{.Category}}" title="As categorised by OncoKB"><a href="{{.Link}}" target="_blank" rel="noopener noreferrer">{{.Text}}</a></span>{{else}}<span class="data-pills {{.Category}}">{{.Text}}</span>{{end}}{{end -}}
{{define "toggle"}}<a class="transcript-toggle" href="{{toggleHref}}">{{.ToggleText}}</a>{{end -}}
<div class="basic-info-container">
<span class="basic-info-pills">
{{range .Before}}{{template "pill" .}}
{{end}}{{with .Vue}}<span class="vue-wrapper"{{with .Details}} title="{{vueTitle .}}"{{end}}><a href="{{.HomeURL}}" target="_blank" rel="noopener noreferrer"><span class="data-pills vue-badge">VUE</span><span class="data-pills">{{.RevisedProteinEffect}}</span><span class="data-pills {{.ClassName}}">{{.RevisedVariantClassification}}</span></a></span>
{{end}}{{range .After}}{{template "pill" .}}
{{end}}<a class="json-link" href="{{.JSONLink}}" target="_blank" title="Click to view the raw API query response. See {{apiDocs}} for more info about the API">JSON</a>
{{if .ShowToggle}}{{template "toggle" .}}
{{end}}</span>
{{if .ShowTranscriptTable}}<table class="transcript-table">
<thead><tr><th>Transcript</th><th>Gene</th><th>Protein change</th><th>Classification</th><th>HGVSc</th><th>RefSeq</th><th>Exon</th></tr></thead>
<tbody>
{{range .Transcripts}}<tr class="{{if .Selected}}selected{{end}}{{if .Canonical}} canonical{{end}}"><td>{{if .Selectable}}<a href="{{transcriptHref .TranscriptID}}">{{.TranscriptID}}</a>{{else}}{{.TranscriptID}}{{end}}{{if .Canonical}} <span class="badge">canonical</span>{{end}}</td><td>{{.HugoGeneSymbol}}</td><td>{{.HgvspShort}}</td><td><span class="{{.ClassName}}">{{.VariantClassification}}</span></td><td>{{.Hgvsc}}</td><td>{{.RefSeq}}</td><td>{{.Exon}}</td></tr>
{{end}}</tbody>
</table>
<div class="transcript-table-source"><span class="text-muted small">Data in the table comes from <a href="{{vepDocs}}" target="_blank" rel="noopener noreferrer">VEP</a></span>. {{template "toggle" .}}</div>
{{end}}</div>
`

// HTMLWriter writes panels as HTML fragments.
type HTMLWriter struct {
	w    *bufio.Writer
	tmpl *template.Template
}

// NewHTMLWriter creates a new HTML writer.
func NewHTMLWriter(w io.Writer, links Links) *HTMLWriter {
	toggle := links.Toggle
	if toggle == "" {
		toggle = "#"
	}
	funcs := template.FuncMap{
		"toggleHref":     func() string { return toggle },
		"transcriptHref": links.transcriptHref,
		"vueTitle":       vueTitle,
		"vepDocs":        func() string { return basicinfo.VEPDocsURL },
		"apiDocs":        func() string { return basicinfo.APIDocsURL },
	}
	return &HTMLWriter{
		w:    bufio.NewWriter(w),
		tmpl: template.Must(template.New("panel").Funcs(funcs).Parse(panelTemplate)),
	}
}

// Write renders a panel. A nil panel writes nothing.
func (hw *HTMLWriter) Write(v *basicinfo.View) error {
	if v == nil {
		return nil
	}
	if err := hw.tmpl.Execute(hw.w, v); err != nil {
		return fmt.Errorf("render panel: %w", err)
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (hw *HTMLWriter) Flush() error {
	return hw.w.Flush()
}
