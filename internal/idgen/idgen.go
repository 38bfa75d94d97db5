// Package idgen generates short, URL-safe ids for canvas objects and
// recalculation events.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Kind is the id prefix of one kind of object.
type Kind string

const (
	Node          Kind = "node-"
	Edge          Kind = "edge-"
	Recalculation Kind = "rc-"
)

// Lowercase only: ids end up in YAML keys and URLs written by hand.
const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	length   = 10
)

// New returns a fresh id of kind k.
func New(k Kind) (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return string(k) + id, nil
}

// NodeID returns a new node id.
func NodeID() (string, error) { return New(Node) }

// EdgeID returns a new edge id.
func EdgeID() (string, error) { return New(Edge) }

// RecalculationID returns a new id for a recalculation or scoring event.
func RecalculationID() (string, error) { return New(Recalculation) }
