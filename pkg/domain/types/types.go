package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SiteID identifies a target site (e.g. "linkedin", "naukri")
type SiteID string

// String returns the string representation
func (id SiteID) String() string {
	return string(id)
}

// Validate checks if the site ID is usable as a configuration key
func (id SiteID) Validate() error {
	if id == "" {
		return goerr.New("site ID cannot be empty")
	}
	return nil
}

// RunID identifies one refresh run across all sites
type RunID string

// String returns the string representation
func (id RunID) String() string {
	return string(id)
}

// NewRunID creates a new RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// Validate checks if the run ID is valid (non-empty)
func (id RunID) Validate() error {
	if id == "" {
		return goerr.New("run ID cannot be empty")
	}
	return nil
}
