// Package annotation defines the Genome Nexus variant annotation summary types
// consumed by the basic info panel.
package annotation

// VariantAnnotation is the top-level Genome Nexus response for a single variant.
// Only the annotation_summary part is used by the panel.
type VariantAnnotation struct {
	Variant           string   `json:"variant"`
	AssemblyName      string   `json:"assembly_name,omitempty"`
	AnnotationSummary *Summary `json:"annotation_summary,omitempty"`
}

// Summary is a variant-level annotation summary.
type Summary struct {
	Variant                        string                         `json:"variant"`
	GenomicLocation                *GenomicLocation               `json:"genomicLocation,omitempty"`
	StrandSign                     string                         `json:"strandSign,omitempty"`
	VariantType                    string                         `json:"variantType,omitempty"`
	AssemblyName                   string                         `json:"assemblyName,omitempty"`
	CanonicalTranscriptID          string                         `json:"canonicalTranscriptId,omitempty"`
	TranscriptConsequenceSummary   *TranscriptConsequenceSummary  `json:"transcriptConsequenceSummary,omitempty"`
	TranscriptConsequenceSummaries []TranscriptConsequenceSummary `json:"transcriptConsequenceSummaries,omitempty"`
	Vues                           *Vues                          `json:"vues,omitempty"`
}

// GenomicLocation identifies the variant on the reference genome.
type GenomicLocation struct {
	Chromosome      string `json:"chromosome"`
	Start           int64  `json:"start"`
	End             int64  `json:"end"`
	ReferenceAllele string `json:"referenceAllele"`
	VariantAllele   string `json:"variantAllele"`
}

// TranscriptConsequenceSummary holds the per-transcript consequence fields.
// Empty strings mean the value is not available.
type TranscriptConsequenceSummary struct {
	TranscriptID          string           `json:"transcriptId"`
	HugoGeneSymbol        string           `json:"hugoGeneSymbol,omitempty"`
	EntrezGeneID          string           `json:"entrezGeneId,omitempty"`
	HgvspShort            string           `json:"hgvspShort,omitempty"`
	Hgvsp                 string           `json:"hgvsp,omitempty"`
	Hgvsc                 string           `json:"hgvsc,omitempty"`
	VariantClassification string           `json:"variantClassification,omitempty"`
	ConsequenceTerms      string           `json:"consequenceTerms,omitempty"`
	RefSeq                string           `json:"refSeq,omitempty"`
	Exon                  string           `json:"exon,omitempty"`
	ProteinPosition       *ProteinPosition `json:"proteinPosition,omitempty"`
}

// ProteinPosition is the affected amino acid range.
type ProteinPosition struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Vues is the community-curated revised variant effect (reVUE) for a variant.
type Vues struct {
	HugoGeneSymbol                    string `json:"hugoGeneSymbol,omitempty"`
	GenomicLocation                   string `json:"genomicLocation,omitempty"`
	TranscriptID                      string `json:"transcriptId,omitempty"`
	VepPredictedProteinEffect         string `json:"vepPredictedProteinEffect,omitempty"`
	VepPredictedVariantClassification string `json:"vepPredictedVariantClassification,omitempty"`
	RevisedProteinEffect              string `json:"revisedProteinEffect,omitempty"`
	RevisedVariantClassification      string `json:"revisedVariantClassification,omitempty"`
	PubmedID                          int64  `json:"pubmedId,omitempty"`
	ReferenceText                     string `json:"referenceText,omitempty"`
	Context                           string `json:"context,omitempty"`
	Confirmed                         bool   `json:"confirmed,omitempty"`
}

// FindTranscript returns the consequence summary for the given transcript id,
// or nil if the summary list has no such transcript.
func (s *Summary) FindTranscript(transcriptID string) *TranscriptConsequenceSummary {
	if s == nil {
		return nil
	}
	for i := range s.TranscriptConsequenceSummaries {
		if s.TranscriptConsequenceSummaries[i].TranscriptID == transcriptID {
			return &s.TranscriptConsequenceSummaries[i]
		}
	}
	return nil
}

// ResolveTranscript returns the selected transcript's consequence summary,
// falling back to the canonical one. Returns nil when neither exists.
func (s *Summary) ResolveTranscript(transcriptID string) *TranscriptConsequenceSummary {
	if s == nil {
		return nil
	}
	if t := s.FindTranscript(transcriptID); t != nil {
		return t
	}
	return s.TranscriptConsequenceSummary
}

// CanonicalID returns the canonical transcript id, preferring the explicit
// field over the canonical summary.
func (s *Summary) CanonicalID() string {
	if s == nil {
		return ""
	}
	if s.CanonicalTranscriptID != "" {
		return s.CanonicalTranscriptID
	}
	if s.TranscriptConsequenceSummary != nil {
		return s.TranscriptConsequenceSummary.TranscriptID
	}
	return ""
}
