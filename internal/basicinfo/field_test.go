package basicinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
)

func strp(s string) *string { return &s }

var testGenes = oncokb.GeneMap{
	"BRAF":   &oncokb.Gene{HugoSymbol: "BRAF", Oncogene: true},
	"TP53":   &oncokb.Gene{HugoSymbol: "TP53", TSG: true},
	"NOTCH1": &oncokb.Gene{HugoSymbol: "NOTCH1", Oncogene: true, TSG: true},
}

func brafTranscript() *annotation.TranscriptConsequenceSummary {
	return &annotation.TranscriptConsequenceSummary{
		TranscriptID:          "ENST00000288602",
		HugoGeneSymbol:        "BRAF",
		HgvspShort:            "p.V600E",
		Hgvsc:                 "ENST00000288602.6:c.1799T>A",
		VariantClassification: "Missense_Mutation",
		ConsequenceTerms:      "missense_variant",
		RefSeq:                "NM_004333.4",
	}
}

func brafSummary() *annotation.Summary {
	t := brafTranscript()
	return &annotation.Summary{
		Variant:                      "7:g.140453136A>T",
		VariantType:                  "SNP",
		TranscriptConsequenceSummary: t,
		TranscriptConsequenceSummaries: []annotation.TranscriptConsequenceSummary{
			*t,
			{TranscriptID: "ENST00000479537", HugoGeneSymbol: "BRAF", Hgvsc: "ENST00000479537.1:n.145T>A"},
		},
	}
}

func keysOf(fields []Field) []Key {
	var out []Key
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return out
}

func TestExtractFields_Order(t *testing.T) {
	fields := ExtractFields(brafTranscript(), "7:g.140453136A>T", testGenes, brafSummary())
	require.Len(t, fields, 10)

	want := []struct {
		key      Key
		value    *string
		category string
	}{
		{KeyHugoGeneSymbol, strp("BRAF"), CategoryGene},
		{KeyOncogene, strp("Oncogene"), CategoryOncogene},
		{KeyTSG, nil, CategoryTSG},
		{KeyHgvsShort, strp("p.V600E"), CategoryDefault},
		{KeyVariantClassification, strp("Missense_Mutation"), "missense-mutation"},
		{KeyVariantType, strp("SNP"), CategoryMutation},
		{KeyHgvsg, strp("7:g.140453136A>T"), CategoryHgvsg},
		{KeyHgvsc, strp("c.1799T>A"), CategoryDefault},
		{KeyTranscript, strp("ENST00000288602"), CategoryDefault},
		{KeyRefSeq, strp("NM_004333.4"), CategoryDefault},
	}
	for i, w := range want {
		t.Run(string(w.key), func(t *testing.T) {
			assert.Equal(t, w.key, fields[i].Key)
			assert.Equal(t, w.value, fields[i].Value)
			assert.Equal(t, w.category, fields[i].Category)
		})
	}
}

func TestExtractFields_NilTranscript(t *testing.T) {
	assert.Nil(t, ExtractFields(nil, "7:g.140453136A>T", testGenes, brafSummary()))
}

func TestExtractFields_GeneClassification(t *testing.T) {
	tests := []struct {
		gene     string
		oncogene *string
		tsg      *string
	}{
		{"BRAF", strp(OncogeneLabel), nil},
		{"TP53", nil, strp(TSGLabel)},
		{"NOTCH1", strp(OncogeneLabel), strp(TSGLabel)},
		{"UNKNOWN", nil, nil},
		{"", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.gene, func(t *testing.T) {
			tr := brafTranscript()
			tr.HugoGeneSymbol = tt.gene
			fields := ExtractFields(tr, "v", testGenes, brafSummary())
			assert.Equal(t, tt.oncogene, fields[1].Value)
			assert.Equal(t, tt.tsg, fields[2].Value)

			kept := keysOf(DropEmpty(fields))
			if tt.oncogene == nil {
				assert.NotContains(t, kept, KeyOncogene)
			}
			if tt.tsg == nil {
				assert.NotContains(t, kept, KeyTSG)
			}
		})
	}

	// nil gene map never classifies
	fields := ExtractFields(brafTranscript(), "v", nil, brafSummary())
	assert.Nil(t, fields[1].Value)
	assert.Nil(t, fields[2].Value)
}

func TestExtractFields_NilAnnotation(t *testing.T) {
	fields := ExtractFields(brafTranscript(), "v", testGenes, nil)
	require.Len(t, fields, 10)
	assert.Nil(t, fields[5].Value)
}

func TestExtractFields_UnknownConsequenceIsOther(t *testing.T) {
	tr := brafTranscript()
	tr.ConsequenceTerms = "intron_variant"
	fields := ExtractFields(tr, "v", testGenes, brafSummary())
	assert.Equal(t, "other-mutation", fields[4].Category)

	tr.ConsequenceTerms = ""
	fields = ExtractFields(tr, "v", testGenes, brafSummary())
	assert.Equal(t, "other-mutation", fields[4].Category)
}

func TestParseHgvsc(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{"ENST123:c.123A>T", strp("c.123A>T")},
		{"c.35G>T", strp("c.35G>T")},
		{"ENST00000311936.8:c.34_35delinsTT", strp("c.34_35delinsTT")},
		{"no-marker-here", nil},
		{"ENST00000479537.1:n.145T>A", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHgvsc(tt.in))
		})
	}
}

func TestIntergenicFields(t *testing.T) {
	fields := IntergenicFields("1:g.1000000A>G")
	require.Len(t, fields, 2)
	assert.Equal(t, KeyVariantType, fields[0].Key)
	assert.Equal(t, "Intergenic Variant", fields[0].Text())
	assert.Equal(t, CategoryMutation, fields[0].Category)
	assert.Equal(t, KeyHgvsg, fields[1].Key)
	assert.Equal(t, "1:g.1000000A>G", fields[1].Text())
	assert.Equal(t, CategoryHgvsg, fields[1].Category)
}

func TestIntergenicFields_EmptyVariant(t *testing.T) {
	fields := IntergenicFields("")
	require.Len(t, fields, 2)
	assert.Nil(t, fields[1].Value)

	a := &annotation.Summary{VariantType: "SNP"}
	v := NewPanel(Props{Annotation: a, IGV: true}).Build()
	require.NotNil(t, v)
	assert.Equal(t, []Key{KeyVariantType}, pillKeys(v.Before))
}

func TestDropEmpty(t *testing.T) {
	assert.Nil(t, DropEmpty(nil))

	fields := []Field{
		{Value: strp("a"), Key: KeyHugoGeneSymbol},
		{Value: nil, Key: KeyOncogene},
		{Value: strp(""), Key: KeyTSG},
		{Value: strp("b"), Key: KeyRefSeq},
	}
	got := DropEmpty(fields)
	assert.Equal(t, []Key{KeyHugoGeneSymbol, KeyTSG, KeyRefSeq}, keysOf(got))
	assert.Len(t, fields, 4, "input not modified")
}

func TestField_Text(t *testing.T) {
	assert.Equal(t, "", Field{}.Text())
	assert.Equal(t, "x", Field{Value: strp("x")}.Text())
}

// Extracting twice from the same inputs gives equal results.
func TestExtractFields_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := &annotation.TranscriptConsequenceSummary{
			TranscriptID:          rapid.StringMatching(`ENST[0-9]{0,5}`).Draw(t, "id"),
			HugoGeneSymbol:        rapid.SampledFrom([]string{"", "BRAF", "TP53", "NOTCH1", "KRAS"}).Draw(t, "gene"),
			HgvspShort:            rapid.String().Draw(t, "hgvsp"),
			Hgvsc:                 rapid.String().Draw(t, "hgvsc"),
			VariantClassification: rapid.String().Draw(t, "class"),
			ConsequenceTerms:      rapid.String().Draw(t, "terms"),
			RefSeq:                rapid.String().Draw(t, "refseq"),
		}
		a := &annotation.Summary{VariantType: rapid.String().Draw(t, "type")}
		variant := rapid.String().Draw(t, "variant")

		first := ExtractFields(tr, variant, testGenes, a)
		second := ExtractFields(tr, variant, testGenes, a)
		if len(first) != 10 || len(second) != 10 {
			t.Fatalf("want 10 fields, got %d and %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Key != second[i].Key || first[i].Category != second[i].Category || first[i].Text() != second[i].Text() {
				t.Fatalf("field %d differs: %+v vs %+v", i, first[i], second[i])
			}
		}
	})
}

// The oncogene field is present exactly when the gene map flags the gene.
func TestExtractFields_OncogeneProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gene := rapid.StringMatching(`[A-Z0-9]{0,6}`).Draw(t, "gene")
		genes := oncokb.GeneMap{}
		if gene != "" && rapid.Bool().Draw(t, "listed") {
			genes[gene] = &oncokb.Gene{
				HugoSymbol: gene,
				Oncogene:   rapid.Bool().Draw(t, "oncogene"),
				TSG:        rapid.Bool().Draw(t, "tsg"),
			}
		}
		tr := brafTranscript()
		tr.HugoGeneSymbol = gene

		fields := ExtractFields(tr, "v", genes, nil)
		wantOnc := gene != "" && genes[gene] != nil && genes[gene].Oncogene
		wantTSG := gene != "" && genes[gene] != nil && genes[gene].TSG
		if (fields[1].Value != nil) != wantOnc {
			t.Fatalf("oncogene field = %v, want present=%v", fields[1].Value, wantOnc)
		}
		if (fields[2].Value != nil) != wantTSG {
			t.Fatalf("tsg field = %v, want present=%v", fields[2].Value, wantTSG)
		}
	})
}
