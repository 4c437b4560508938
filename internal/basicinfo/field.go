// Package basicinfo builds the basic info panel of a variant: the ordered
// display fields extracted from an annotation summary, their grouping for the
// current view mode, and the panel's toggle state.
package basicinfo

import (
	"strings"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
	"github.com/inodb/vibe-panel/internal/mutationtype"
)

// Key identifies a display field.
type Key string

// Display field keys.
const (
	KeyHugoGeneSymbol        Key = "hugoGeneSymbol"
	KeyOncogene              Key = "oncogene"
	KeyTSG                   Key = "tsg"
	KeyHgvsShort             Key = "hgvsShort"
	KeyVariantClassification Key = "variantClassification"
	KeyVariantType           Key = "variantType"
	KeyHgvsg                 Key = "hgvsg"
	KeyHgvsc                 Key = "hgvsc"
	KeyTranscript            Key = "transcript"
	KeyRefSeq                Key = "refSeq"
)

// Display categories. The variant classification category comes from
// mutationtype instead.
const (
	CategoryGene     = "gene"
	CategoryOncogene = "oncogene"
	CategoryTSG      = "tsg"
	CategoryDefault  = "default"
	CategoryMutation = "mutation"
	CategoryHgvsg    = "hgvsg"
)

// Display values of the gene classification and intergenic fields.
const (
	OncogeneLabel     = "Oncogene"
	TSGLabel          = "TSG"
	IntergenicVariant = "Intergenic Variant"
)

// hgvscMarker starts the coding part of an HGVSc string.
const hgvscMarker = "c."

// Field is a single display field. A nil Value means the field has no data.
type Field struct {
	Value    *string
	Key      Key
	Category string
}

// Text returns the field value, or "" when it has none.
func (f Field) Text() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}

// optional returns nil for an empty upstream value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ExtractFields builds the display fields for a transcript consequence
// summary. It returns nil when there is no transcript to show. Otherwise it
// returns one field per Key, in display order; fields without data have a nil
// Value and are kept so callers can drop them with DropEmpty.
func ExtractFields(t *annotation.TranscriptConsequenceSummary, variant string, genes oncokb.GeneMap, a *annotation.Summary) []Field {
	if t == nil {
		return nil
	}

	var oncogene, tsg *string
	if genes.IsOncogene(t.HugoGeneSymbol) {
		oncogene = optional(OncogeneLabel)
	}
	if genes.IsTSG(t.HugoGeneSymbol) {
		tsg = optional(TSGLabel)
	}

	var variantType *string
	if a != nil {
		variantType = optional(a.VariantType)
	}

	return []Field{
		{Value: optional(t.HugoGeneSymbol), Key: KeyHugoGeneSymbol, Category: CategoryGene},
		{Value: oncogene, Key: KeyOncogene, Category: CategoryOncogene},
		{Value: tsg, Key: KeyTSG, Category: CategoryTSG},
		{Value: optional(t.HgvspShort), Key: KeyHgvsShort, Category: CategoryDefault},
		{
			Value:    optional(t.VariantClassification),
			Key:      KeyVariantClassification,
			Category: mutationtype.ClassName(optional(t.ConsequenceTerms)),
		},
		{Value: variantType, Key: KeyVariantType, Category: CategoryMutation},
		{Value: optional(variant), Key: KeyHgvsg, Category: CategoryHgvsg},
		{Value: ParseHgvsc(t.Hgvsc), Key: KeyHgvsc, Category: CategoryDefault},
		{Value: optional(t.TranscriptID), Key: KeyTranscript, Category: CategoryDefault},
		{Value: optional(t.RefSeq), Key: KeyRefSeq, Category: CategoryDefault},
	}
}

// IntergenicFields is the reduced field list shown in IGV mode when no
// transcript consequence exists for the variant.
func IntergenicFields(variant string) []Field {
	return []Field{
		{Value: optional(IntergenicVariant), Key: KeyVariantType, Category: CategoryMutation},
		{Value: optional(variant), Key: KeyHgvsg, Category: CategoryHgvsg},
	}
}

// ParseHgvsc returns the coding part of an HGVSc string, starting at the
// first "c.". It returns nil when the string is empty or has no marker.
func ParseHgvsc(hgvsc string) *string {
	if hgvsc == "" {
		return nil
	}
	i := strings.Index(hgvsc, hgvscMarker)
	if i < 0 {
		return nil
	}
	return optional(hgvsc[i:])
}

// DropEmpty returns the fields that have a value, preserving order.
func DropEmpty(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Value != nil {
			out = append(out, f)
		}
	}
	return out
}
