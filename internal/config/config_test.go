package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhr3/filescan/lineindex"
	"github.com/mhr3/filescan/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, query.ScopeLine, cfg.ScopeValue())
	assert.Equal(t, lineindex.DefaultMaxTextExtent, cfg.Search.MaxTextExtent)
}

func TestLoadKDL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, KDLFile, `
search {
    match_case true
    scope "buffer"
    max_text_extent 20
    workers 3
}
files {
    include "**/*.go" "**/*.md"
    max_file_size 1024
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Search.MatchCase)
	assert.Equal(t, query.ScopeBuffer, cfg.ScopeValue())
	assert.Equal(t, 20, cfg.Search.MaxTextExtent)
	assert.Equal(t, 3, cfg.Search.Workers)
	assert.Equal(t, Default().Search.CheckIntervalBytes, cfg.Search.CheckIntervalBytes)
	assert.Equal(t, []string{"**/*.go", "**/*.md"}, cfg.Files.Include)
	assert.Equal(t, int64(1024), cfg.Files.MaxFileSize)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TOMLFile, `
[search]
match_case = true
max_text_extent = 10

[files]
include = ["*.txt"]
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Search.MatchCase)
	assert.Equal(t, 10, cfg.Search.MaxTextExtent)
	assert.Equal(t, "line", cfg.Search.Scope)
	assert.Equal(t, []string{"*.txt"}, cfg.Files.Include)
	assert.Equal(t, Default().Files.MaxFileSize, cfg.Files.MaxFileSize)
}

func TestLoadPrefersKDL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, KDLFile, "search {\n    max_text_extent 7\n}\n")
	writeFile(t, dir, TOMLFile, "[search]\nmax_text_extent = 9\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.MaxTextExtent)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad_scope", TOMLFile, "[search]\nscope = \"file\"\n"},
		{"negative_extent", TOMLFile, "[search]\nmax_text_extent = -1\n"},
		{"zero_workers", KDLFile, "search {\n    workers 0\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := Load(dir)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TOMLFile, "[search\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
