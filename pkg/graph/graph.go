package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/network"
)

// File formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *network.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes g to w in the given format.
func WriteGraph(g *network.Graph, w io.Writer, format string) error {
	out := FromNetwork(g)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return oerrors.ValidateFormat(format, FormatJSON, FormatYAML)
	}
	return nil
}

// WriteGraphFile writes g to path, as YAML for .yaml/.yml paths and JSON
// otherwise.
func WriteGraphFile(g *network.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f, FormatFromPath(path))
}

// ReadGraph decodes a graph in the given format from r.
func ReadGraph(r io.Reader, format string) (*network.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalGraph(data, format)
}

// ReadGraphFile reads the graph at path, picking the format from the
// extension.
func ReadGraphFile(path string) (*network.Graph, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, oerrors.Wrap(oerrors.ErrCodeFileNotFound, err, "graph file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	g, err := UnmarshalGraph(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// UnmarshalGraph decodes and builds a graph. Unknown fields are rejected so
// that typos in hand-written files do not pass silently.
func UnmarshalGraph(data []byte, format string) (*network.Graph, error) {
	var gj Graph
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&gj); err != nil {
			return nil, oerrors.Wrap(oerrors.ErrCodeInvalidGraph, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&gj); err != nil {
			return nil, oerrors.Wrap(oerrors.ErrCodeInvalidGraph, err, "decode yaml")
		}
	default:
		return nil, oerrors.ValidateFormat(format, FormatJSON, FormatYAML)
	}
	return ToNetwork(gj)
}

// FormatFromPath returns FormatYAML for .yaml and .yml paths and
// FormatJSON for everything else.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}
