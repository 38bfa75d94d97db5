// Package archfile reads architecture documents (nodes and edges) from YAML or
// JSON for the command line. It checks structure only; the documents are not
// versioned.
package archfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/archscore/internal/idgen"
	"github.com/alfredjeanlab/archscore/internal/model"
)

// Decode reads one architecture document, fills in missing node and edge ids,
// and validates it. JSON input is accepted since it is valid YAML.
func Decode(r io.Reader) (*model.Architecture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var a model.Architecture
	if err := dec.Decode(&a); err != nil {
		if errors.Is(err, io.EOF) {
			return &model.Architecture{Nodes: []model.Node{}, Edges: []model.Edge{}}, nil
		}
		return nil, fmt.Errorf("decode architecture: %w", err)
	}
	if err := AssignIDs(&a); err != nil {
		return nil, err
	}
	if err := model.ValidateArchitecture(&a); err != nil {
		return nil, err
	}
	if a.Nodes == nil {
		a.Nodes = []model.Node{}
	}
	if a.Edges == nil {
		a.Edges = []model.Edge{}
	}
	return &a, nil
}

// Load reads the architecture document at path, or stdin when path is "-".
func Load(path string) (*model.Architecture, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// AssignIDs generates ids for nodes and edges that have none.
func AssignIDs(a *model.Architecture) error {
	for i := range a.Nodes {
		if a.Nodes[i].ID != "" {
			continue
		}
		id, err := idgen.NodeID()
		if err != nil {
			return err
		}
		a.Nodes[i].ID = id
	}
	for i := range a.Edges {
		if a.Edges[i].ID != "" {
			continue
		}
		id, err := idgen.EdgeID()
		if err != nil {
			return err
		}
		a.Edges[i].ID = id
	}
	return nil
}

// Encode writes a as YAML.
func Encode(w io.Writer, a *model.Architecture) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return err
	}
	return enc.Close()
}
