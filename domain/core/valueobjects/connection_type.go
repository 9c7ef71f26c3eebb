package valueobjects

import (
	pkgerrors "relgraph/pkg/errors"
)

// ConnectionType is the closed set of relationship categories a person can
// carry. The set is fixed; remote rows with any other value are rejected at
// the decode boundary.
type ConnectionType string

const (
	ConnectionPhilosophical ConnectionType = "philosophical"
	ConnectionBusiness      ConnectionType = "business"
	ConnectionPsychological ConnectionType = "psychological"
	ConnectionPractical     ConnectionType = "practical"
	ConnectionSynthesis     ConnectionType = "synthesis"
)

// AllConnectionTypes lists every valid connection type in display order
var AllConnectionTypes = []ConnectionType{
	ConnectionPhilosophical,
	ConnectionBusiness,
	ConnectionPsychological,
	ConnectionPractical,
	ConnectionSynthesis,
}

// connectionColors maps each type to its scene accent color
var connectionColors = map[ConnectionType]string{
	ConnectionPhilosophical: "#8B5CF6",
	ConnectionBusiness:      "#3B82F6",
	ConnectionPsychological: "#06B6D4",
	ConnectionPractical:     "#EF4444",
	ConnectionSynthesis:     "#EC4899",
}

// connectionLabels maps each type to its display label
var connectionLabels = map[ConnectionType]string{
	ConnectionPhilosophical: "Philosophical",
	ConnectionBusiness:      "Business",
	ConnectionPsychological: "Psychological",
	ConnectionPractical:     "Practical",
	ConnectionSynthesis:     "Synthesis",
}

// NewConnectionType creates a ConnectionType from a raw string with validation
func NewConnectionType(raw string) (ConnectionType, error) {
	ct := ConnectionType(raw)
	if !ct.IsValid() {
		return "", pkgerrors.NewValidationError("unknown connection type: " + raw)
	}
	return ct, nil
}

// IsValid checks membership in the closed set
func (c ConnectionType) IsValid() bool {
	_, ok := connectionLabels[c]
	return ok
}

// Color returns the scene accent color for this type
func (c ConnectionType) Color() string {
	return connectionColors[c]
}

// Label returns the display label for this type
func (c ConnectionType) Label() string {
	return connectionLabels[c]
}

// String returns the wire representation
func (c ConnectionType) String() string {
	return string(c)
}
