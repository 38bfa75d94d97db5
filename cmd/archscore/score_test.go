package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alfredjeanlab/archscore/internal/client"
	"github.com/alfredjeanlab/archscore/internal/engine"
)

func TestReportScore_FailUnder(t *testing.T) {
	res := &client.ScoreResult{ID: "rc-1", Report: engine.Report{AggregateScore: 6.6}}

	for _, tc := range []struct {
		name      string
		asJSON    bool
		failUnder float64
		wantErr   bool
	}{
		{"text below", false, 9.9, true},
		{"json below", true, 9.9, true},
		{"text above", false, 5, false},
		{"json above", true, 5, false},
		{"json disabled", true, 0, false},
		{"text equal", false, 6.6, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := reportScore(&buf, res, tc.asJSON, tc.failUnder)
			if tc.wantErr {
				if err == nil || err.Error() != "aggregate score 6.6 is below 9.9" {
					t.Fatalf("err = %v, want threshold error", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tc.asJSON {
				var got map[string]any
				if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
					t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
				}
				if got["id"] != "rc-1" {
					t.Errorf("id = %v", got["id"])
				}
			} else if !strings.Contains(buf.String(), "Architecture score: 6.6") {
				t.Errorf("missing score line:\n%s", buf.String())
			}
		})
	}
}
