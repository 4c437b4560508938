// Package mutationtype maps raw consequence vocabulary (SO terms, MAF
// Variant_Classification values, ANNOVAR labels) to canonical mutation types
// and their display formats.
package mutationtype

import "strings"

// Canonical mutation types.
const (
	Missense      = "missense"
	Inframe       = "inframe"
	Truncating    = "truncating"
	Nonsense      = "nonsense"
	Nonstop       = "nonstop"
	Nonstart      = "nonstart"
	Frameshift    = "frameshift"
	FrameShiftDel = "frame_shift_del"
	FrameShiftIns = "frame_shift_ins"
	InFrameIns    = "in_frame_ins"
	InFrameDel    = "in_frame_del"
	SpliceSite    = "splice_site"
	Fusion        = "fusion"
	Silent        = "silent"
	Other         = "other"
)

// Format is the display label and style class of a canonical mutation type.
type Format struct {
	Label     string
	ClassName string
}

// Formats maps each canonical mutation type to its display format.
var Formats = map[string]Format{
	Missense:      {Label: "Missense", ClassName: "missense-mutation"},
	Inframe:       {Label: "IF", ClassName: "inframe-mutation"},
	Truncating:    {Label: "Truncating", ClassName: "trunc-mutation"},
	Nonsense:      {Label: "Nonsense", ClassName: "trunc-mutation"},
	Nonstop:       {Label: "Nonstop", ClassName: "trunc-mutation"},
	Nonstart:      {Label: "Nonstart", ClassName: "trunc-mutation"},
	Frameshift:    {Label: "FS", ClassName: "trunc-mutation"},
	FrameShiftDel: {Label: "FS del", ClassName: "trunc-mutation"},
	FrameShiftIns: {Label: "FS ins", ClassName: "trunc-mutation"},
	InFrameIns:    {Label: "IF ins", ClassName: "inframe-mutation"},
	InFrameDel:    {Label: "IF del", ClassName: "inframe-mutation"},
	SpliceSite:    {Label: "Splice", ClassName: "trunc-mutation"},
	Fusion:        {Label: "Fusion", ClassName: "fusion"},
	Silent:        {Label: "Silent", ClassName: "other-mutation"},
	Other:         {Label: "Other", ClassName: "other-mutation"},
}

// canonicalTypes maps lowercased raw terms to canonical mutation types.
var canonicalTypes = map[string]string{
	// missense
	"missense_mutation": Missense,
	"missense":          Missense,
	"missense_variant":  Missense,

	// frameshift
	"frame_shift_ins":          FrameShiftIns,
	"frame_shift_del":          FrameShiftDel,
	"frameshift":               Frameshift,
	"frameshift_deletion":      FrameShiftDel,
	"frameshift_insertion":     FrameShiftIns,
	"de_novo_start_outofframe": Frameshift,
	"frameshift_variant":       Frameshift,

	// nonsense
	"nonsense_mutation": Nonsense,
	"nonsense":          Nonsense,
	"stopgain_snv":      Nonsense,
	"stop_gained":       Nonsense,

	// splice
	"splice_site":             SpliceSite,
	"splice":                  SpliceSite,
	"splice site":             SpliceSite,
	"splicing":                SpliceSite,
	"splice_site_snp":         SpliceSite,
	"splice_site_del":         SpliceSite,
	"splice_site_indel":       SpliceSite,
	"splice_region_variant":   SpliceSite,
	"splice_region":           SpliceSite,
	"splice_donor_variant":    SpliceSite,
	"splice_acceptor_variant": SpliceSite,

	// start/stop
	"translation_start_site":  Nonstart,
	"initiator_codon_variant": Nonstart,
	"start_codon_snp":         Nonstart,
	"start_codon_del":         Nonstart,
	"start_lost":              Nonstart,
	"nonstop_mutation":        Nonstop,
	"stop_lost":               Nonstop,

	// inframe
	"inframe_del":                InFrameDel,
	"inframe_deletion":           InFrameDel,
	"in_frame_del":               InFrameDel,
	"in_frame_deletion":          InFrameDel,
	"nonframeshift_deletion":     InFrameDel,
	"inframe_ins":                InFrameIns,
	"inframe_insertion":          InFrameIns,
	"in_frame_ins":               InFrameIns,
	"in_frame_insertion":         InFrameIns,
	"nonframeshift_insertion":    InFrameIns,
	"indel":                      InFrameDel,
	"nonframeshift":              Inframe,
	"nonframeshift substitution": Inframe,
	"inframe":                    Inframe,

	"truncating": Truncating,
	"fusion":     Fusion,

	// silent
	"silent":             Silent,
	"synonymous_variant": Silent,
}

// Canonical returns the canonical mutation type for a raw term.
// Unknown terms map to Other.
func Canonical(term string) string {
	if c, ok := canonicalTypes[strings.ToLower(term)]; ok {
		return c
	}
	return Other
}

// Lookup returns the display format for raw consequence terms. A nil or empty
// input, or a term without a format, yields the Other format.
func Lookup(terms *string) Format {
	if terms == nil || *terms == "" {
		return Formats[Other]
	}
	if f, ok := Formats[Canonical(*terms)]; ok && f.ClassName != "" {
		return f
	}
	return Formats[Other]
}

// ClassName returns the style class for raw consequence terms.
func ClassName(terms *string) string {
	return Lookup(terms).ClassName
}
