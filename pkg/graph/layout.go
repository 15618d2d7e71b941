package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/octomap/pkg/conflict"
	"github.com/matzehuels/octomap/pkg/geom"
	"github.com/matzehuels/octomap/pkg/network"
	"github.com/matzehuels/octomap/pkg/repair"
	"github.com/matzehuels/octomap/pkg/resolve"
)

// =============================================================================
// Layout - Resolved Map
// =============================================================================

// Layout is a resolved graph together with what the resolver did to it.
//
// The embedded Graph holds the final positions, including any bend nodes
// inserted during repair, and reloads with [ToNetwork]. Conflicts lists
// what is left unsolved, worst first; it is empty when Solved is true.
type Layout struct {
	Graph

	Strategy  string         `json:"strategy,omitempty"`
	Solved    bool           `json:"solved"`
	Factor    float64        `json:"scale_factor,omitempty"`
	Conflicts []ConflictView `json:"conflicts,omitempty"`
	Passes    []PassView     `json:"passes,omitempty"`
}

// Point is a serialized coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func pointOf(p geom.Point) Point { return Point{X: p.X, Y: p.Y} }

// ConflictView is the serialized form of a [conflict.Conflict].
type ConflictView struct {
	Type     string    `json:"type"`
	Elements [2]string `json:"elements"`
	Axis     string    `json:"axis"`
	Distance float64   `json:"distance"`
	Vector   Point     `json:"vector"`
	Origin   Point     `json:"origin"`
	Polygon  []Point   `json:"polygon,omitempty"`
}

// NewConflictView converts c.
func NewConflictView(c conflict.Conflict) ConflictView {
	v := ConflictView{
		Type:     c.Type.String(),
		Elements: c.Elements(),
		Axis:     c.Axis.String(),
		Distance: c.Distance,
		Vector:   pointOf(c.Vector),
		Origin:   pointOf(c.Origin),
	}
	for _, p := range c.Polygon {
		v.Polygon = append(v.Polygon, pointOf(p))
	}
	return v
}

// ConflictViews converts cs worst first.
func ConflictViews(cs []conflict.Conflict) []ConflictView {
	if len(cs) == 0 {
		return nil
	}
	out := make([]ConflictView, 0, len(cs))
	for _, c := range conflict.WorstFirst(cs) {
		out = append(out, NewConflictView(c))
	}
	return out
}

// PassView is the serialized form of a [resolve.Pass].
type PassView struct {
	Index     int           `json:"index"`
	Strategy  string        `json:"strategy"`
	Conflicts int           `json:"conflicts"`
	Factor    float64       `json:"factor,omitempty"`
	Conflict  *ConflictView `json:"conflict,omitempty"`
	Moved     int           `json:"moved,omitempty"`
	Repairs   []RepairView  `json:"repairs,omitempty"`
	Skipped   []string      `json:"skipped,omitempty"`
}

// RepairView is the serialized form of a [repair.Action].
type RepairView struct {
	Edge    string   `json:"edge"`
	Outcome string   `json:"outcome"`
	Node    string   `json:"node,omitempty"`
	From    *Point   `json:"from,omitempty"`
	To      *Point   `json:"to,omitempty"`
	Bends   []string `json:"bends,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// NewPassView converts p.
func NewPassView(p resolve.Pass) PassView {
	v := PassView{
		Index:     p.Index,
		Strategy:  string(p.Strategy),
		Conflicts: p.Conflicts,
		Factor:    p.Factor,
		Moved:     p.Moved,
		Skipped:   p.Skipped,
	}
	if p.Conflict != nil {
		cv := NewConflictView(*p.Conflict)
		v.Conflict = &cv
	}
	for _, a := range p.Repairs {
		v.Repairs = append(v.Repairs, newRepairView(a))
	}
	return v
}

func newRepairView(a repair.Action) RepairView {
	v := RepairView{
		Edge:    a.Edge,
		Outcome: a.Outcome.String(),
		Node:    a.Node,
		Bends:   a.Bends,
		Reason:  a.Reason,
	}
	if a.Outcome == repair.Moved {
		from, to := pointOf(a.From), pointOf(a.To)
		v.From, v.To = &from, &to
	}
	return v
}

// NewLayout serializes g and the reports of the resolver runs that
// produced it, in the order they ran. Solved and Conflicts come from the
// last report; with no reports the layout lists cs as its conflicts.
func NewLayout(g *network.Graph, cs []conflict.Conflict, reports ...*resolve.Report) Layout {
	l := Layout{Graph: FromNetwork(g), Factor: 1}
	for i, rep := range reports {
		if i > 0 {
			l.Strategy += "+"
		}
		l.Strategy += string(rep.Strategy)
		l.Factor *= rep.Factor
		for _, p := range rep.Passes {
			l.Passes = append(l.Passes, NewPassView(p))
		}
		cs = rep.Remaining
	}
	l.Conflicts = ConflictViews(cs)
	l.Solved = len(cs) == 0
	return l
}

// Network rebuilds the resolved graph.
func (l Layout) Network() (*network.Graph, error) {
	return ToNetwork(l.Graph)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that the
// graph it carries is valid.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if _, err := l.Network(); err != nil {
		return Layout{}, fmt.Errorf("layout graph: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
