// Package oncokb provides OncoKB cancer gene list loading and gene
// classification lookups.
package oncokb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Gene holds the OncoKB classification of a cancer gene.
type Gene struct {
	HugoSymbol   string `json:"hugoSymbol"`
	EntrezGeneID int64  `json:"entrezGeneId,omitempty"`
	GeneType     string `json:"geneType,omitempty"` // e.g. "ONCOGENE", "TSG", "ONCOGENE_AND_TSG"
	Oncogene     bool   `json:"oncogene"`
	TSG          bool   `json:"tsg"`
}

// GeneMap maps Hugo Symbol to Gene.
type GeneMap map[string]*Gene

// IsCancerGene returns true if the gene is in the cancer gene list.
func (m GeneMap) IsCancerGene(gene string) bool {
	_, ok := m[gene]
	return ok
}

// IsOncogene returns true if the gene is classified as an oncogene.
func (m GeneMap) IsOncogene(gene string) bool {
	if gene == "" {
		return false
	}
	g, ok := m[gene]
	return ok && g != nil && g.Oncogene
}

// IsTSG returns true if the gene is classified as a tumor suppressor.
func (m GeneMap) IsTSG(gene string) bool {
	if gene == "" {
		return false
	}
	g, ok := m[gene]
	return ok && g != nil && g.TSG
}

// ParseGeneType derives the oncogene and TSG flags from an OncoKB gene type.
// Both "ONCOGENE_AND_TSG" and "ONCOGENE,TSG" set both flags.
func ParseGeneType(geneType string) (oncogene, tsg bool) {
	gt := strings.ToUpper(strings.TrimSpace(geneType))
	switch gt {
	case "ONCOGENE":
		return true, false
	case "TSG":
		return false, true
	case "ONCOGENE_AND_TSG":
		return true, true
	}
	for _, part := range strings.Split(gt, ",") {
		switch strings.TrimSpace(part) {
		case "ONCOGENE":
			oncogene = true
		case "TSG":
			tsg = true
		}
	}
	return oncogene, tsg
}

// Load loads a cancer gene list, choosing the decoder by file extension:
// ".json" for the OncoKB API payload, anything else for the TSV download.
func Load(path string) (GeneMap, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open cancer gene list: %w", err)
		}
		defer f.Close()
		return DecodeCancerGeneList(f)
	}
	return LoadCancerGeneList(path)
}

// LoadCancerGeneList loads an OncoKB cancerGeneList.tsv file.
// The TSV must have a "Hugo Symbol" column and either a "Gene Type" column or
// the "Is Oncogene" and "Is Tumor Suppressor Gene" flag columns.
func LoadCancerGeneList(path string) (GeneMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cancer gene list: %w", err)
	}
	defer f.Close()
	return ReadCancerGeneList(f)
}

// ReadCancerGeneList parses a cancer gene list TSV.
func ReadCancerGeneList(r io.Reader) (GeneMap, error) {
	scanner := bufio.NewScanner(r)

	// Read header to find column indices
	if !scanner.Scan() {
		return nil, fmt.Errorf("cancer gene list: empty file")
	}
	header := strings.Split(scanner.Text(), "\t")

	hugoIdx, entrezIdx, geneTypeIdx, oncogeneIdx, tsgIdx := -1, -1, -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Hugo Symbol":
			hugoIdx = i
		case "Entrez Gene ID":
			entrezIdx = i
		case "Gene Type":
			geneTypeIdx = i
		case "Is Oncogene":
			oncogeneIdx = i
		case "Is Tumor Suppressor Gene":
			tsgIdx = i
		}
	}
	if hugoIdx < 0 {
		return nil, fmt.Errorf("cancer gene list: missing 'Hugo Symbol' column")
	}
	if geneTypeIdx < 0 && (oncogeneIdx < 0 || tsgIdx < 0) {
		return nil, fmt.Errorf("cancer gene list: missing 'Gene Type' column")
	}

	genes := make(GeneMap)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		col := func(idx int) string {
			if idx < 0 || idx >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[idx])
		}
		hugo := col(hugoIdx)
		if hugo == "" {
			continue
		}
		g := &Gene{HugoSymbol: hugo, GeneType: col(geneTypeIdx)}
		if id, err := strconv.ParseInt(col(entrezIdx), 10, 64); err == nil {
			g.EntrezGeneID = id
		}
		if geneTypeIdx >= 0 {
			g.Oncogene, g.TSG = ParseGeneType(g.GeneType)
		} else {
			g.Oncogene = isYes(col(oncogeneIdx))
			g.TSG = isYes(col(tsgIdx))
		}
		genes[hugo] = g
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cancer gene list: %w", err)
	}

	return genes, nil
}

// DecodeCancerGeneList parses the JSON array returned by the OncoKB
// /utils/cancerGeneList endpoint.
func DecodeCancerGeneList(r io.Reader) (GeneMap, error) {
	var list []*Gene
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode cancer gene list: %w", err)
	}
	genes := make(GeneMap, len(list))
	for _, g := range list {
		if g == nil || g.HugoSymbol == "" {
			continue
		}
		genes[g.HugoSymbol] = g
	}
	return genes, nil
}

func isYes(s string) bool {
	return strings.EqualFold(s, "yes") || strings.EqualFold(s, "true")
}
