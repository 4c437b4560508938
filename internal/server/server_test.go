package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-panel/internal/annotation"
	"github.com/inodb/vibe-panel/internal/basicinfo"
	"github.com/inodb/vibe-panel/internal/datasource/oncokb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const krasVariant = "12:g.25398285C>A"

var testGenes = oncokb.GeneMap{
	"KRAS": &oncokb.Gene{HugoSymbol: "KRAS", Oncogene: true},
}

func krasSummary() *annotation.Summary {
	canonical := annotation.TranscriptConsequenceSummary{
		TranscriptID:          "ENST00000256078",
		HugoGeneSymbol:        "KRAS",
		HgvspShort:            "p.G12C",
		Hgvsc:                 "ENST00000256078.4:c.34G>T",
		VariantClassification: "Missense_Mutation",
		ConsequenceTerms:      "missense_variant",
	}
	return &annotation.Summary{
		Variant:                      krasVariant,
		VariantType:                  "SNP",
		TranscriptConsequenceSummary: &canonical,
		TranscriptConsequenceSummaries: []annotation.TranscriptConsequenceSummary{
			canonical,
			{TranscriptID: "ENST00000311936", HugoGeneSymbol: "KRAS", HgvspShort: "p.G12C", VariantClassification: "Missense_Mutation"},
		},
	}
}

func newTestServer(source annotation.Source) *Server {
	return New(Config{Genes: testGenes, QueryFields: []string{"annotation_summary"}}, source, nil)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(annotation.StaticSource{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestPanel_HTML(t *testing.T) {
	s := newTestServer(annotation.StaticSource{krasVariant: krasSummary()})

	rec := get(t, s, "/variant/12:g.25398285C%3EA")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<span class="data-pills gene">KRAS</span>`)
	assert.Contains(t, body, `href="https://www.oncokb.org/gene/KRAS"`)
	assert.Contains(t, body, `href="/annotation/12:g.25398285C%3EA?fields=annotation_summary"`)
	assert.Contains(t, body, `href="/variant/12:g.25398285C%3EA?transcripts=open"`)
	assert.NotContains(t, body, "transcript-table")
}

func TestPanel_HTML_OpenTable(t *testing.T) {
	s := newTestServer(annotation.StaticSource{krasVariant: krasSummary()})

	body := get(t, s, "/variant/12:g.25398285C%3EA?transcripts=open").Body.String()
	assert.Contains(t, body, "transcript-table")
	assert.Contains(t, body, `href="/variant/12:g.25398285C%3EA?transcript=ENST00000311936&amp;transcripts=open"`)
	assert.Contains(t, body, `<a class="transcript-toggle" href="/variant/12:g.25398285C%3EA">Close table</a>`)
}

func TestPanel_HTML_IGV(t *testing.T) {
	s := newTestServer(annotation.StaticSource{"1:g.1A>G": {Variant: "1:g.1A>G"}})

	rec := get(t, s, "/variant/1:g.1A%3EG?igv=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Intergenic Variant")

	rec = get(t, s, "/variant/1:g.1A%3EG")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPanel_NotFound(t *testing.T) {
	s := newTestServer(annotation.StaticSource{})
	rec := get(t, s, "/variant/1:g.1A%3EG")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingSource struct{}

func (failingSource) Summary(context.Context, string) (*annotation.Summary, error) {
	return nil, errors.New("upstream down")
}

func TestPanel_UpstreamError(t *testing.T) {
	rec := get(t, newTestServer(failingSource{}), "/variant/1:g.1A%3EG")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream down")
}

func TestPanelJSON(t *testing.T) {
	s := newTestServer(annotation.StaticSource{krasVariant: krasSummary()})

	rec := get(t, s, "/api/panel/12:g.25398285C%3EA?transcript=ENST00000311936")
	require.Equal(t, http.StatusOK, rec.Code)

	var v basicinfo.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, krasVariant, v.Variant)
	assert.True(t, v.ShowToggle)
	assert.False(t, v.ShowTranscriptTable)
	require.NotEmpty(t, v.Before)
	assert.Equal(t, basicinfo.KeyHugoGeneSymbol, v.Before[0].Key)
}

func TestAnnotation_FromSummary(t *testing.T) {
	s := newTestServer(annotation.StaticSource{krasVariant: krasSummary()})

	rec := get(t, s, "/annotation/12:g.25398285C%3EA?fields=annotation_summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var va annotation.VariantAnnotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &va))
	assert.Equal(t, krasVariant, va.Variant)
	require.NotNil(t, va.AnnotationSummary)
	assert.Equal(t, "SNP", va.AnnotationSummary.VariantType)
}

type rawSource struct {
	annotation.StaticSource
}

func (rawSource) Raw(_ context.Context, variant string, fields ...string) ([]byte, error) {
	data, err := json.Marshal(map[string]any{"variant": variant, "fields": fields})
	return data, err
}

func TestAnnotation_Raw(t *testing.T) {
	s := newTestServer(rawSource{annotation.StaticSource{}})

	rec := get(t, s, "/annotation/12:g.25398285C%3EA")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"variant":"12:g.25398285C>A","fields":null}`, rec.Body.String())

	rec = get(t, s, "/annotation/12:g.25398285C%3EA?fields=hotspots,annotation_summary,")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"variant":"12:g.25398285C>A","fields":["hotspots","annotation_summary"]}`, rec.Body.String())
}

func TestPanelState_Href(t *testing.T) {
	tests := []struct {
		st   panelState
		want string
	}{
		{panelState{}, "/variant/7:g.1A%3ET"},
		{panelState{open: true}, "/variant/7:g.1A%3ET?transcripts=open"},
		{panelState{transcript: "ENST1", igv: true}, "/variant/7:g.1A%3ET?igv=true&transcript=ENST1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.st.href("7:g.1A>T"))
	}
}

func TestRequestID_Propagates(t *testing.T) {
	s := newTestServer(annotation.StaticSource{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestRun_Shutdown(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"}, annotation.StaticSource{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}
