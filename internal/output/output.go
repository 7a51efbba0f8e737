// Package output renders parser event streams in text, JSON, YAML, and tree formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ava12/meta"
	"github.com/ava12/meta/internal/config"
	"github.com/ava12/meta/tree"
)

// Event is the serializable form of meta.Event.
type Event struct {
	Kind   string `json:"kind" yaml:"kind"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Offset int    `json:"offset" yaml:"offset"`
	Length int    `json:"length" yaml:"length"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Events converts parser events to serializable form.
func Events(events []meta.Event) []Event {
	result := make([]Event, len(events))
	for i, ev := range events {
		result[i] = Event{
			Kind:   ev.Data.Kind.String(),
			Name:   ev.Data.Name.String(),
			Offset: ev.Range.Offset,
			Length: ev.Range.Length,
			Value:  ev.Data.Value(),
		}
	}
	return result
}

// Write renders events to w in given format, one of config.Format* constants.
func Write(w io.Writer, format string, events []meta.Event) error {
	switch format {
	case config.FormatText:
		return WriteText(w, events)
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Events(events))
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if e := enc.Encode(Events(events)); e != nil {
			return e
		}
		return enc.Close()
	case config.FormatTree:
		root, e := tree.Build(events)
		if e != nil {
			return e
		}
		return tree.Dump(w, root)
	default:
		return meta.FormatError(config.InvalidConfigError, "unknown output format %q", format)
	}
}

// WriteText prints one event per line, indenting events nested in nodes.
func WriteText(w io.Writer, events []meta.Event) error {
	depth := 0
	for _, ev := range events {
		if ev.Data.Kind == meta.EndNodeKind && depth > 0 {
			depth--
		}
		if _, e := fmt.Fprintf(w, "%s%v\n", strings.Repeat("  ", depth), ev); e != nil {
			return e
		}
		if ev.Data.Kind == meta.StartNodeKind {
			depth++
		}
	}
	return nil
}
