package oncokb

import (
	"net/url"
	"strings"
)

// DefaultURL is the OncoKB site the classification links point to.
const DefaultURL = "https://www.oncokb.org"

// Query identifies the gene and alteration of an indicator query.
type Query struct {
	HugoSymbol string `json:"hugoSymbol"`
	Alteration string `json:"alteration"`
}

// Indicator is the part of an OncoKB IndicatorQueryResp used to build links.
type Indicator struct {
	Query        *Query `json:"query,omitempty"`
	GeneExist    bool   `json:"geneExist"`
	VariantExist bool   `json:"variantExist"`
}

// Link builds the OncoKB page link for an indicator: the gene page when OncoKB
// knows the gene, the alteration page when it also knows the variant, and the
// base URL otherwise.
func Link(base string, ind *Indicator) string {
	link := strings.TrimRight(base, "/")
	if ind == nil || ind.Query == nil || !ind.GeneExist || ind.Query.HugoSymbol == "" {
		return link
	}
	link += "/gene/" + url.PathEscape(ind.Query.HugoSymbol)
	if ind.VariantExist && ind.Query.Alteration != "" {
		link += "/" + url.PathEscape(ind.Query.Alteration)
	}
	return link
}

// Indicator derives an indicator from the cancer gene list. The gene exists
// when it is listed; variant-level knowledge is not available from the list.
// It returns nil when hugoSymbol is empty.
func (m GeneMap) Indicator(hugoSymbol, hgvspShort string) *Indicator {
	if hugoSymbol == "" {
		return nil
	}
	return &Indicator{
		Query: &Query{
			HugoSymbol: hugoSymbol,
			Alteration: strings.TrimPrefix(hgvspShort, "p."),
		},
		GeneExist: m.IsCancerGene(hugoSymbol),
	}
}
