package cache

import "github.com/matzehuels/octomap/pkg/buffer"

// Keyer derives cache keys. Keys embed a hash of everything that changes
// the cached value, so stale entries are never read, only orphaned.
type Keyer interface {
	// LayoutKey is the key of a resolved layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ConflictsKey is the key of a conflict listing.
	ConflictsKey(graphHash string, opts ConflictsKeyOpts) string
}

// LayoutKeyOpts are the options that change a resolved layout.
type LayoutKeyOpts struct {
	Strategy          string         `json:"strategy"`
	Margins           buffer.Margins `json:"margins"`
	Signature         string         `json:"signature"`
	MaxScalePasses    int            `json:"max_scale_passes"`
	MaxDisplacePasses int            `json:"max_displace_passes"`
	CorrectionFactor  float64        `json:"correction_factor"`
	MajorMisalignment bool           `json:"major"`
	CostThreshold     float64        `json:"cost_threshold"`
	CyclePenalty      float64        `json:"cycle_penalty"`
}

// ConflictsKeyOpts are the options that change a conflict listing.
type ConflictsKeyOpts struct {
	Margins           buffer.Margins `json:"margins"`
	Signature         string         `json:"signature"`
	CorrectionFactor  float64        `json:"correction_factor"`
	MajorMisalignment bool           `json:"major"`
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ConflictsKey implements Keyer.
func (DefaultKeyer) ConflictsKey(graphHash string, opts ConflictsKeyOpts) string {
	return hashKey("conflicts", graphHash, opts)
}
