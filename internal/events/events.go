package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// Event topics. Subscribers may use "archscore.>" to receive all of them.
const (
	TopicAll                    = "archscore.>"
	TopicRecalculationCompleted = "archscore.recalculation.completed"
	TopicScoreComputed          = "archscore.score.computed"
	TopicLibraryLoaded          = "archscore.library.loaded"
)

// RecalculationCompleted is emitted after a propagation pass for one edit.
type RecalculationCompleted struct {
	ID            string                     `json:"id"`
	ChangedNodeID string                     `json:"changed_node_id"`
	At            time.Time                  `json:"at"`
	AffectedNodes []string                   `json:"affected_nodes"`
	Placeholders  []string                   `json:"placeholders,omitempty"`
	TotalDelayMs  int64                      `json:"total_delay_ms"`
	Result        *model.RecalculationResult `json:"result,omitempty"`
}

// ScoreComputed is emitted after a whole-architecture scoring.
type ScoreComputed struct {
	ID             string         `json:"id"`
	At             time.Time      `json:"at"`
	Nodes          int            `json:"nodes"`
	AggregateScore float64        `json:"aggregate_score"`
	Tier           *model.TierRef `json:"tier,omitempty"`
	Warnings       int            `json:"warnings"`
}

// LibraryLoaded is emitted once the component library has loaded.
type LibraryLoaded struct {
	Source        string    `json:"source"`
	SchemaVersion string    `json:"schema_version"`
	Components    int       `json:"components"`
	Tiers         int       `json:"tiers"`
	At            time.Time `json:"at"`
}

// Decode unmarshals a payload into the event type registered for topic.
func Decode(topic string, data []byte) (any, error) {
	var ev any
	switch topic {
	case TopicRecalculationCompleted:
		ev = &RecalculationCompleted{}
	case TopicScoreComputed:
		ev = &ScoreComputed{}
	case TopicLibraryLoaded:
		ev = &LibraryLoaded{}
	default:
		return nil, fmt.Errorf("unknown topic %q", topic)
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", topic, err)
	}
	return ev, nil
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// MatchTopic reports whether topic matches a NATS subject pattern: "*"
// matches exactly one dot-separated token and a trailing ">" matches one or
// more.
func MatchTopic(pattern, topic string) bool {
	for {
		pTok, pRest, pMore := strings.Cut(pattern, ".")
		if pTok == ">" && !pMore {
			return topic != ""
		}
		tTok, tRest, tMore := strings.Cut(topic, ".")
		if pTok != "*" && pTok != tTok {
			return false
		}
		if !pMore || !tMore {
			return pMore == tMore
		}
		pattern, topic = pRest, tRest
	}
}
