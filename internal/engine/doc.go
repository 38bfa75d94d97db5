// Package engine implements metric propagation and scoring over an
// architecture graph.
//
// Every function in this package is synchronous and pure: inputs are read,
// never retained, and no state is shared between calls. Unresolved
// component references degrade to empty metric sets instead of errors.
package engine

import "github.com/alfredjeanlab/archscore/internal/model"

// ComponentLookup resolves component ids against a loaded library.
type ComponentLookup interface {
	GetComponent(id string) (*model.Component, bool)
}

// ComponentMap is a ComponentLookup backed by a plain map, handy for fixtures.
type ComponentMap map[string]*model.Component

// GetComponent implements ComponentLookup.
func (m ComponentMap) GetComponent(id string) (*model.Component, bool) {
	c, ok := m[id]
	return c, ok
}
