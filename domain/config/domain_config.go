package config

import (
	"relgraph/domain/core/valueobjects"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Core node rules. The distinguished person is identified by display
	// name, not by a dedicated flag; keep the comparison behind
	// Person.IsCore so the convention can move to a boolean column later.
	CoreNodeName           string
	CoreNodeConnectionType valueobjects.ConnectionType

	// Placement rules for newly added people: a uniform sample on a
	// spherical shell between the two radii.
	PlacementRadiusMin float64
	PlacementRadiusMax float64

	// Entity constraints
	MaxNameLength  int
	MaxTitleLength int
	MaxBioLength   int
	MaxBodyLength  int

	// Feature flags
	EnableRealtimeSync bool
	EnableBootstrap    bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		CoreNodeName:           "Абай",
		CoreNodeConnectionType: valueobjects.ConnectionSynthesis,

		PlacementRadiusMin: 8,
		PlacementRadiusMax: 12,

		MaxNameLength:  200,
		MaxTitleLength: 500,
		MaxBioLength:   5000,
		MaxBodyLength:  5000,

		EnableRealtimeSync: true,
		EnableBootstrap:    true,
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.CoreNodeName == "" {
		return errEmptyCoreName
	}
	if c.PlacementRadiusMin <= 0 || c.PlacementRadiusMax < c.PlacementRadiusMin {
		return errBadRadiusRange
	}
	if !c.CoreNodeConnectionType.IsValid() {
		return errBadCoreType
	}
	return nil
}
