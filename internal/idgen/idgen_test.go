package idgen

import (
	"regexp"
	"testing"
)

func TestKindIDs(t *testing.T) {
	for _, tc := range []struct {
		name string
		gen  func() (string, error)
		kind Kind
	}{
		{"Node", NodeID, Node},
		{"Edge", EdgeID, Edge},
		{"Recalculation", RecalculationID, Recalculation},
	} {
		t.Run(tc.name, func(t *testing.T) {
			id, err := tc.gen()
			if err != nil {
				t.Fatalf("%sID() error: %v", tc.name, err)
			}
			pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(string(tc.kind)) + `[0-9a-z]{10}$`)
			if !pattern.MatchString(id) {
				t.Errorf("%sID() = %q, want %s followed by %d lowercase alphanumerics", tc.name, id, tc.kind, length)
			}
		})
	}
}

func TestNew_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := range count {
		id, err := New(Node)
		if err != nil {
			t.Fatalf("New(Node) error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestNew_CustomKind(t *testing.T) {
	id, err := New("arch-")
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != len("arch-")+length || id[:5] != "arch-" {
		t.Errorf("New(%q) = %q", "arch-", id)
	}
}
