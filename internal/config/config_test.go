package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-panel/internal/basicinfo"
	"github.com/inodb/vibe-panel/internal/genomenexus"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, Init(v, ""))

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, genomenexus.DefaultURL, c.GenomeNexus.BaseURL)
	assert.Equal(t, 30*time.Second, c.GenomeNexus.Timeout)
	assert.Equal(t, 10, c.GenomeNexus.RateLimit)
	assert.Equal(t, basicinfo.DefaultQueryFields, c.Annotation.Fields)
	assert.Equal(t, basicinfo.DefaultQueryFields, c.GenomeNexus.Fields)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, "https://www.oncokb.org", c.OncoKB.URL)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".vibe-panel", "annotations.duckdb"), c.DB.Path)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
genomenexus:
  url: http://localhost:8888
  fields: [annotation_summary]
oncokb:
  genes: /data/cancerGeneList.tsv
annotation:
  fields: [annotation_summary, hotspots]
server:
  addr: 127.0.0.1:9000
`), 0644))

	v := viper.New()
	require.NoError(t, Init(v, path))
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8888", c.GenomeNexus.BaseURL)
	assert.Equal(t, []string{"annotation_summary"}, c.GenomeNexus.Fields)
	assert.Equal(t, []string{"annotation_summary", "hotspots"}, c.Annotation.Fields)
	assert.Equal(t, "/data/cancerGeneList.tsv", c.OncoKB.Genes)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIBE_PANEL_SERVER_ADDR", ":7000")
	t.Setenv("VIBE_PANEL_DB_PATH", "/tmp/panel.duckdb")

	v := viper.New()
	require.NoError(t, Init(v, ""))
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, "/tmp/panel.duckdb", c.DB.Path)
}

func TestInit_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))
	assert.Error(t, Init(viper.New(), path))

	assert.Error(t, Init(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")))
}
