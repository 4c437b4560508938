package basicinfo

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
	"github.com/inodb/vibe-panel/internal/mutationtype"
)

// Static links shown by the panel.
const (
	VEPDocsURL  = "https://useast.ensembl.org/info/docs/tools/vep/index.html"
	ReVUEURL    = "https://cancerrevue.org"
	APIDocsURL  = "https://docs.genomenexus.org/api"
	VueClass    = "inframe-mutation"
	toggleOpen  = "Close table"
	toggleClose = "All transcripts"
)

// DefaultQueryFields are the annotation fields requested by the JSON link
// when none are configured.
var DefaultQueryFields = []string{
	"hotspots",
	"annotation_summary",
	"my_variant_info",
	"clinvar",
	"signal",
	"ptms",
}

// Props are the inputs of a panel.
type Props struct {
	IGV                           bool
	Annotation                    *annotation.Summary
	Variant                       string
	Genes                         oncokb.GeneMap
	Indicator                     *oncokb.Indicator
	SelectedTranscript            string
	IsCanonicalTranscriptSelected bool
	AllValidTranscripts           []string
	QueryFields                   []string // nil means DefaultQueryFields
	OncoKBURL                     string   // "" means oncokb.DefaultURL
}

// PropsFor builds the props of a panel for an annotation and an optional
// transcript selection. The OncoKB indicator is derived from the gene list
// for the resolved transcript.
func PropsFor(a *annotation.Summary, genes oncokb.GeneMap, transcript string) Props {
	props := Props{
		Annotation:                    a,
		Genes:                         genes,
		SelectedTranscript:            transcript,
		IsCanonicalTranscriptSelected: transcript == "" || transcript == a.CanonicalID(),
	}
	if a != nil {
		props.Variant = a.Variant
	}
	if t := a.ResolveTranscript(transcript); t != nil {
		props.Indicator = genes.Indicator(t.HugoGeneSymbol, t.HgvspShort)
	}
	return props
}

// Pill is a rendered field. Link is set for fields that point to OncoKB.
type Pill struct {
	Field
	Link string
}

// VueBlock is the revised variant effect shown in place of the protein
// change and classification pills.
type VueBlock struct {
	RevisedProteinEffect         string
	RevisedVariantClassification string
	ClassName                    string
	HomeURL                      string
	Details                      *annotation.Vues
}

// TranscriptRow is one row of the transcript table. ClassName styles the
// variant classification cell.
type TranscriptRow struct {
	annotation.TranscriptConsequenceSummary
	ClassName  string
	Canonical  bool
	Selected   bool
	Selectable bool
}

// View is everything a writer needs to render a panel.
type View struct {
	Variant             string
	IGV                 bool
	Before              []Pill
	Vue                 *VueBlock
	After               []Pill
	JSONLink            string
	OncoKBLink          string
	ShowToggle          bool
	ToggleText          string
	ShowAllTranscripts  bool
	ShowTranscriptTable bool
	Transcripts         []TranscriptRow
}

// Panel is one basic info panel instance. Its only mutable state is whether
// the transcript table is expanded.
type Panel struct {
	props              Props
	showAllTranscripts bool
	logger             *zap.Logger
}

// NewPanel creates a panel with the transcript table collapsed.
func NewPanel(props Props) *Panel {
	return &Panel{
		props:  props,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (p *Panel) SetLogger(l *zap.Logger) {
	p.logger = l
}

// ShowAllTranscripts reports whether the transcript table is expanded.
func (p *Panel) ShowAllTranscripts() bool {
	return p.showAllTranscripts
}

// Toggle expands or collapses the transcript table.
func (p *Panel) Toggle() {
	p.showAllTranscripts = !p.showAllTranscripts
}

// Build lays out the panel for the current props and toggle state. It returns
// nil when there is nothing to show.
func (p *Panel) Build() *View {
	a := p.props.Annotation
	if a == nil {
		return nil
	}

	t := a.ResolveTranscript(p.props.SelectedTranscript)
	fields := DropEmpty(ExtractFields(t, p.props.Variant, p.props.Genes, a))
	if fields == nil {
		if !p.props.IGV {
			p.logger.Debug("no transcript consequence for variant",
				zap.String("variant", p.props.Variant),
				zap.String("transcript", p.props.SelectedTranscript))
			return nil
		}
		fields = DropEmpty(IntergenicFields(p.props.Variant))
	}

	showVue := !p.props.IGV && IsVue(a, p.props.SelectedTranscript)
	layout := Select(fields, Mode{IGV: p.props.IGV, ShowVue: showVue})

	oncokbBase := p.props.OncoKBURL
	if oncokbBase == "" {
		oncokbBase = oncokb.DefaultURL
	}
	oncokbLink := oncokb.Link(oncokbBase, p.props.Indicator)

	queryFields := p.props.QueryFields
	if queryFields == nil {
		queryFields = DefaultQueryFields
	}

	haveTable := HasTranscriptTable(a)
	v := &View{
		Variant:            p.props.Variant,
		IGV:                p.props.IGV,
		Before:             pills(layout.Before, oncokbLink),
		After:              pills(layout.After, oncokbLink),
		JSONLink:           JSONLink(p.props.Variant, queryFields),
		OncoKBLink:         oncokbLink,
		ShowToggle:         !p.props.IGV && haveTable,
		ToggleText:         toggleClose,
		ShowAllTranscripts: p.showAllTranscripts,
	}
	if p.showAllTranscripts {
		v.ToggleText = toggleOpen
	}
	if layout.Vue {
		v.Vue = newVueBlock(a.Vues)
	}
	if v.ShowToggle && p.showAllTranscripts {
		v.ShowTranscriptTable = true
		v.Transcripts = p.transcriptRows(t)
	}
	return v
}

func (p *Panel) transcriptRows(selected *annotation.TranscriptConsequenceSummary) []TranscriptRow {
	a := p.props.Annotation
	canonicalID := a.CanonicalID()
	rows := make([]TranscriptRow, 0, len(a.TranscriptConsequenceSummaries))
	for _, t := range a.TranscriptConsequenceSummaries {
		canonical := t.TranscriptID == canonicalID
		rows = append(rows, TranscriptRow{
			TranscriptConsequenceSummary: t,
			ClassName:                    ClassificationFormat(&t).ClassName,
			Canonical:                    canonical,
			Selected: (p.props.IsCanonicalTranscriptSelected && canonical) ||
				(selected != nil && t.TranscriptID == selected.TranscriptID),
			Selectable: p.isValidTranscript(t.TranscriptID),
		})
	}
	return rows
}

// isValidTranscript reports whether a transcript can be selected. With no
// valid transcript list, every transcript can.
func (p *Panel) isValidTranscript(id string) bool {
	if len(p.props.AllValidTranscripts) == 0 {
		return true
	}
	for _, v := range p.props.AllValidTranscripts {
		if v == id {
			return true
		}
	}
	return false
}

func pills(fields []Field, oncokbLink string) []Pill {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Pill, len(fields))
	for i, f := range fields {
		out[i] = Pill{Field: f}
		if f.Key == KeyOncogene || f.Key == KeyTSG {
			out[i].Link = oncokbLink
		}
	}
	return out
}

func newVueBlock(vues *annotation.Vues) *VueBlock {
	b := &VueBlock{
		ClassName: VueClass,
		HomeURL:   ReVUEURL,
		Details:   vues,
	}
	if vues != nil {
		b.RevisedProteinEffect = vues.RevisedProteinEffect
		b.RevisedVariantClassification = vues.RevisedVariantClassification
	}
	return b
}

// IsVue reports whether the variant has a revised effect for the selected
// transcript. An empty selection means the canonical transcript.
func IsVue(a *annotation.Summary, selectedTranscript string) bool {
	if a == nil || a.Vues == nil {
		return false
	}
	target := selectedTranscript
	if target == "" {
		target = a.CanonicalID()
	}
	return a.Vues.TranscriptID == target
}

// HasTranscriptTable reports whether the annotation has more than one
// transcript consequence and a canonical one, so a transcript table can be
// shown.
func HasTranscriptTable(a *annotation.Summary) bool {
	return a != nil &&
		a.TranscriptConsequenceSummary != nil &&
		a.TranscriptConsequenceSummaries != nil &&
		len(a.TranscriptConsequenceSummaries) > 1
}

// JSONLink is the path of the raw annotation query for a variant.
func JSONLink(variant string, fields []string) string {
	return "/annotation/" + url.PathEscape(variant) + "?fields=" + strings.Join(fields, ",")
}

// ClassificationFormat returns the mutation type format of a transcript's
// variant classification.
func ClassificationFormat(t *annotation.TranscriptConsequenceSummary) mutationtype.Format {
	if t == nil {
		return mutationtype.Lookup(nil)
	}
	return mutationtype.Lookup(optional(t.ConsequenceTerms))
}
