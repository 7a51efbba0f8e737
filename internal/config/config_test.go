package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/meta/internal/test"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, FormatText, cfg.Log.Format)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, FormatText, cfg.Parse.Format)
	assert.Equal(t, 4, cfg.Parse.Concurrency)
	assert.Equal(t, 10000, cfg.Parse.MaxDepth)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 64, cfg.Server.CacheSize)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Server.NoWatch)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, e := Parse("sample", []byte(`
log:
  level: debug
  format: json
color: never
parse:
  format: yaml
server:
  grammar_dir: /srv/grammars
  read_timeout: 5s
  no_watch: true
`))
	require.NoError(t, e)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
	assert.False(t, cfg.UseColor())
	assert.Equal(t, FormatYAML, cfg.Parse.Format)
	assert.Equal(t, 4, cfg.Parse.Concurrency)
	assert.Equal(t, "/srv/grammars", cfg.Server.GrammarDir)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.NoWatch)
}

func TestParseErrors(t *testing.T) {
	samples := []struct {
		text string
		code int
	}{
		{"log: [", ReadConfigError},
		{"log:\n  level: loud", InvalidConfigError},
		{"log:\n  format: xml", InvalidConfigError},
		{"color: sometimes", InvalidConfigError},
		{"parse:\n  format: csv", InvalidConfigError},
		{"parse:\n  concurrency: -1", InvalidConfigError},
		{"server:\n  cache_size: -5", InvalidConfigError},
	}

	for i, sample := range samples {
		t.Run(fmt.Sprintf("sample #%d", i), func(t *testing.T) {
			cfg, e := Parse("sample", []byte(sample.text))
			assert.Nil(t, cfg)
			test.ExpectErrorCode(t, sample.code, e)
		})
	}
}

func TestValidateListsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Color = "x"
	cfg.Server.Addr = ""
	e := cfg.Validate()
	require.Error(t, e)
	assert.Contains(t, e.Error(), "color: ")
	assert.Contains(t, e.Error(), "server.addr: ")
}

func TestLoad(t *testing.T) {
	cfg, e := Load("")
	require.NoError(t, e)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "metagen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parse:\n  concurrency: 2\n"), 0o644))
	cfg, e = Load(path)
	require.NoError(t, e)
	assert.Equal(t, 2, cfg.Parse.Concurrency)

	_, e = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, e, os.ErrNotExist)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	cfg.Log.Format = FormatJSON
	buf := &bytes.Buffer{}
	log := cfg.NewLogger(buf)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("grammar", "calc").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"grammar":"calc"`)
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
