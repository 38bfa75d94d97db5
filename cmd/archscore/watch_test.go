package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/model"
)

func eventMessage(t *testing.T, topic string, ev any) events.Message {
	t.Helper()
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return events.Message{Topic: topic, Data: data}
}

func TestPrintEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		msg  events.Message
		want string
	}{
		{
			name: "recalculation",
			msg: eventMessage(t, events.TopicRecalculationCompleted, events.RecalculationCompleted{
				ID: "rc-1", ChangedNodeID: "db", At: at,
				AffectedNodes: []string{"db", "api"}, Placeholders: []string{"api"}, TotalDelayMs: 100,
			}),
			want: "15:04:05 rc-1 recalculated 2 nodes from db (100ms) 1 unresolved\n",
		},
		{
			name: "score",
			msg: eventMessage(t, events.TopicScoreComputed, events.ScoreComputed{
				ID: "rc-2", At: at, Nodes: 4, AggregateScore: 6.5,
				Tier: &model.TierRef{ID: "foundation", Name: "Foundation"}, Warnings: 1,
			}),
			want: "15:04:05 rc-2 scored 4 nodes: 6.5, tier Foundation, 1 warnings\n",
		},
		{
			name: "library",
			msg: eventMessage(t, events.TopicLibraryLoaded, events.LibraryLoaded{
				Source: "builtin", SchemaVersion: "1.0.0", Components: 16, Tiers: 3, At: at,
			}),
			want: "15:04:05 library loaded from builtin (schema 1.0.0, 16 components, 3 tiers)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printEvent(&buf, tt.msg); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrintEvent_JSON(t *testing.T) {
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	msg := eventMessage(t, events.TopicScoreComputed, events.ScoreComputed{ID: "rc-3", Nodes: 1})
	if err := printEvent(&buf, msg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"topic": "archscore.score.computed"`) {
		t.Errorf("missing topic in %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"id": "rc-3"`) {
		t.Errorf("missing event id in %s", buf.String())
	}
}

func TestPrintEvent_UnknownTopic(t *testing.T) {
	var buf bytes.Buffer
	err := printEvent(&buf, events.Message{Topic: "archscore.other", Data: []byte(`{}`)})
	if err == nil {
		t.Fatal("expected error for unknown topic")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}
