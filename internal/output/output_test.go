package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ava12/meta"
	"github.com/ava12/meta/internal/config"
	"github.com/ava12/meta/internal/test"
)

var (
	pairName  = meta.NewName("pair")
	keyName   = meta.NewName("key")
	validName = meta.NewName("valid")
)

func sampleEvents() []meta.Event {
	return []meta.Event{
		{Range: meta.EmptyRange(0), Data: meta.StartNode(pairName)},
		{Range: meta.Range{Offset: 0, Length: 3}, Data: meta.String(keyName, "foo")},
		{Range: meta.EmptyRange(4), Data: meta.Bool(validName, false)},
		{Range: meta.Range{Offset: 0, Length: 4}, Data: meta.EndNode(pairName)},
	}
}

func TestText(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, config.FormatText, sampleEvents()))
	assert.Equal(t, "0+0 start(pair)\n  0+3 string(key, \"foo\")\n  4+0 bool(valid, false)\n0+4 end(pair)\n", buf.String())
}

func TestJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, config.FormatJSON, sampleEvents()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 4)
	assert.Equal(t, map[string]any{"kind": "start", "name": "pair", "offset": 0.0, "length": 0.0}, decoded[0])
	assert.Equal(t, "foo", decoded[1]["value"])
	assert.Equal(t, false, decoded[2]["value"])
}

func TestYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, config.FormatYAML, sampleEvents()))

	var decoded []Event
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, Events(sampleEvents()), decoded)
}

func TestTree(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, config.FormatTree, sampleEvents()))
	assert.Equal(t, "pair 0+4\n  key = \"foo\"\n  valid = false\n", buf.String())
}

func TestUnknownFormat(t *testing.T) {
	e := Write(&bytes.Buffer{}, "csv", nil)
	test.ExpectErrorCode(t, config.InvalidConfigError, e)
}
