package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/basicinfo"
)

// Pill colors by display category.
var (
	colorGene     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	colorOncogene = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	colorTSG      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	colorMissense = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	colorTrunc    = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#F8F8F2"}
	colorInframe  = lipgloss.AdaptiveColor{Light: "#8B4513", Dark: "#D2691E"}
	colorFusion   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	colorMuted    = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	colorVue      = lipgloss.AdaptiveColor{Light: "#8E7CC3", Dark: "#8E7CC3"}
)

var (
	pillStyle  = lipgloss.NewStyle().Padding(0, 1).MarginRight(1)
	linkStyle  = lipgloss.NewStyle().Foreground(colorMuted).Underline(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	headStyle  = lipgloss.NewStyle().Bold(true)
)

// categoryStyle returns the pill style for a display category.
func categoryStyle(category string) lipgloss.Style {
	switch category {
	case basicinfo.CategoryGene:
		return pillStyle.Foreground(colorGene).Bold(true)
	case basicinfo.CategoryOncogene:
		return pillStyle.Foreground(colorOncogene)
	case basicinfo.CategoryTSG:
		return pillStyle.Foreground(colorTSG)
	case "missense-mutation":
		return pillStyle.Foreground(colorMissense)
	case "trunc-mutation":
		return pillStyle.Foreground(colorTrunc).Bold(true)
	case "inframe-mutation":
		return pillStyle.Foreground(colorInframe)
	case "fusion":
		return pillStyle.Foreground(colorFusion)
	case basicinfo.CategoryMutation, basicinfo.CategoryHgvsg:
		return pillStyle.Foreground(colorMuted)
	default:
		return pillStyle
	}
}

// TextWriter writes panels for a terminal, one styled pill row per panel.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a new terminal writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write renders a panel. A nil panel writes nothing.
func (tw *TextWriter) Write(v *basicinfo.View) error {
	if v == nil {
		return nil
	}

	var parts []string
	for _, p := range v.Before {
		parts = append(parts, renderPill(p))
	}
	if v.Vue != nil {
		parts = append(parts,
			pillStyle.Foreground(colorVue).Bold(true).Render("VUE"),
			pillStyle.Render(v.Vue.RevisedProteinEffect),
			categoryStyle(v.Vue.ClassName).Render(v.Vue.RevisedVariantClassification),
		)
	}
	for _, p := range v.After {
		parts = append(parts, renderPill(p))
	}
	parts = append(parts, linkStyle.Render("JSON "+v.JSONLink))
	if v.ShowToggle {
		parts = append(parts, mutedStyle.Render("["+v.ToggleText+"]"))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	b.WriteString("\n")

	if v.Vue != nil && v.Vue.Details != nil {
		b.WriteString(mutedStyle.Render(vueTitle(v.Vue.Details)))
		b.WriteString("\n")
	}
	if v.ShowTranscriptTable {
		b.WriteString(transcriptTable(v.Transcripts))
		b.WriteString(mutedStyle.Render("Data in the table comes from VEP (" + basicinfo.VEPDocsURL + ")"))
		b.WriteString("\n")
	}

	_, err := tw.w.WriteString(b.String())
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TextWriter) Flush() error {
	return tw.w.Flush()
}

func renderPill(p basicinfo.Pill) string {
	s := categoryStyle(p.Category).Render(p.Text())
	if p.Link != "" {
		s += mutedStyle.Render("(" + p.Link + ")")
	}
	return s
}

func transcriptTable(rows []basicinfo.TranscriptRow) string {
	header := []string{"", "Transcript", "Gene", "Protein change", "Classification", "HGVSc", "RefSeq"}
	table := [][]string{header}
	for _, r := range rows {
		mark := " "
		switch {
		case r.Selected:
			mark = ">"
		case r.Canonical:
			mark = "*"
		}
		table = append(table, []string{mark, r.TranscriptID, r.HugoGeneSymbol, r.HgvspShort, r.VariantClassification, r.Hgvsc, r.RefSeq})
	}

	widths := make([]int, len(header))
	for _, row := range table {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, row := range table {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell + strings.Repeat(" ", widths[j]-lipgloss.Width(cell))
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if i == 0 {
			line = headStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// vueTitle summarizes a revised variant effect for tooltips.
func vueTitle(v *annotation.Vues) string {
	if v == nil {
		return ""
	}
	var parts []string
	if v.VepPredictedProteinEffect != "" || v.VepPredictedVariantClassification != "" {
		parts = append(parts, fmt.Sprintf("VEP predicted: %s %s",
			v.VepPredictedProteinEffect, v.VepPredictedVariantClassification))
	}
	parts = append(parts, fmt.Sprintf("Revised: %s %s",
		v.RevisedProteinEffect, v.RevisedVariantClassification))
	if v.ReferenceText != "" {
		ref := "Source: " + v.ReferenceText
		if v.PubmedID > 0 {
			ref += fmt.Sprintf(" (PMID %d)", v.PubmedID)
		}
		parts = append(parts, ref)
	}
	if v.Confirmed {
		parts = append(parts, "Confirmed by RNA sequencing")
	} else {
		parts = append(parts, "Predicted")
	}
	return strings.Join(parts, "; ")
}
