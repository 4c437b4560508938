package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/basicinfo"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
)

var testGenes = oncokb.GeneMap{
	"KRAS": &oncokb.Gene{HugoSymbol: "KRAS", Oncogene: true},
	"TP53": &oncokb.Gene{HugoSymbol: "TP53", TSG: true},
}

func krasSummary() *annotation.Summary {
	canonical := annotation.TranscriptConsequenceSummary{
		TranscriptID:          "ENST00000256078",
		HugoGeneSymbol:        "KRAS",
		HgvspShort:            "p.G12C",
		Hgvsc:                 "ENST00000256078.4:c.34G>T",
		VariantClassification: "Missense_Mutation",
		ConsequenceTerms:      "missense_variant",
		RefSeq:                "NM_033360.3",
		Exon:                  "2/6",
	}
	return &annotation.Summary{
		Variant:                      "12:g.25398285C>A",
		VariantType:                  "SNP",
		TranscriptConsequenceSummary: &canonical,
		TranscriptConsequenceSummaries: []annotation.TranscriptConsequenceSummary{
			canonical,
			{TranscriptID: "ENST00000311936", HugoGeneSymbol: "KRAS", HgvspShort: "p.G12C", VariantClassification: "Missense_Mutation"},
		},
	}
}

func krasView(t *testing.T, open bool) *basicinfo.View {
	t.Helper()
	p := basicinfo.NewPanel(basicinfo.Props{
		Annotation:  krasSummary(),
		Variant:     "12:g.25398285C>A",
		Genes:       testGenes,
		Indicator:   &oncokb.Indicator{Query: &oncokb.Query{HugoSymbol: "KRAS", Alteration: "G12C"}, GeneExist: true},
		QueryFields: []string{"annotation_summary"},
	})
	if open {
		p.Toggle()
	}
	v := p.Build()
	require.NotNil(t, v)
	return v
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()
	for _, col := range []string{"#Variant", "Group", "Key", "Value", "Category", "Link"} {
		assert.Contains(t, header, col)
	}
}

func TestTabWriter_Write_KRASG12C(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.Write(krasView(t, false)))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var keys []string
	for _, line := range lines {
		cols := strings.Split(line, "\t")
		require.Len(t, cols, 6, line)
		assert.Equal(t, "12:g.25398285C>A", cols[0])
		keys = append(keys, cols[1]+":"+cols[2])
	}
	assert.Equal(t, []string{
		"before:hugoGeneSymbol",
		"before:oncogene",
		"before:hgvsShort",
		"before:variantClassification",
		"after:variantType",
		"after:hgvsg",
		"after:hgvsc",
		"after:transcript",
		"after:refSeq",
		"link:json",
	}, keys)

	assert.Contains(t, lines[1], "Oncogene\toncogene\thttps://www.oncokb.org/gene/KRAS")
	assert.Contains(t, lines[3], "Missense_Mutation\tmissense-mutation\t-")
	assert.Contains(t, lines[6], "c.34G>T")
}

func TestTabWriter_Write_Vue(t *testing.T) {
	a := krasSummary()
	a.Vues = &annotation.Vues{
		TranscriptID:                 "ENST00000256078",
		RevisedProteinEffect:         "p.G12_V14del",
		RevisedVariantClassification: "In_Frame_Del",
	}
	v := basicinfo.NewPanel(basicinfo.Props{Annotation: a, Variant: "v"}).Build()
	require.NotNil(t, v)

	var buf bytes.Buffer
	w := NewTabWriter(&buf)
	require.NoError(t, w.Write(v))
	require.NoError(t, w.Flush())

	out := buf.String()
	assert.Contains(t, out, "v\tvue\trevisedProteinEffect\tp.G12_V14del\tdefault\thttps://cancerrevue.org")
	assert.Contains(t, out, "v\tvue\trevisedVariantClassification\tIn_Frame_Del\tinframe-mutation")
	assert.NotContains(t, out, "hgvsShort")
}

func TestWriters_NilView(t *testing.T) {
	var buf bytes.Buffer
	writers := []PanelWriter{NewTabWriter(&buf), NewTextWriter(&buf), NewHTMLWriter(&buf, Links{})}
	for _, w := range writers {
		require.NoError(t, w.Write(nil))
		require.NoError(t, w.Flush())
	}
	assert.Empty(t, buf.String())
}

func TestTabWriter_Write_TranscriptTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)
	require.NoError(t, w.Write(krasView(t, true)))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	tail := lines[len(lines)-2:]
	assert.Equal(t, "12:g.25398285C>A\ttranscript\tENST00000256078\tp.G12C\tmissense-mutation\tcanonical,selected", tail[0])
	assert.Equal(t, "12:g.25398285C>A\ttranscript\tENST00000311936\tp.G12C\tother-mutation\t-", tail[1])
}

func TestTabWriter_EscapesValues(t *testing.T) {
	a := krasSummary()
	a.TranscriptConsequenceSummary.RefSeq = "NM_033360.3\tbad\nline"
	v := basicinfo.NewPanel(basicinfo.Props{Annotation: a, Variant: "v"}).Build()
	require.NotNil(t, v)

	var buf bytes.Buffer
	w := NewTabWriter(&buf)
	require.NoError(t, w.Write(v))
	require.NoError(t, w.Flush())

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Len(t, strings.Split(line, "\t"), 6, line)
	}
	assert.Contains(t, buf.String(), `NM_033360.3\tbad\nline`)
}
