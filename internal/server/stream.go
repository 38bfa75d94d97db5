package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alfredjeanlab/archscore/internal/events"
)

const (
	streamHistorySize  = 1000
	streamClientBuffer = 64
	streamKeepalive    = 15 * time.Second
	streamRetry        = 3 * time.Second
)

// streamEvent is one published event as kept in history and sent to clients.
type streamEvent struct {
	seq   uint64
	topic string
	data  []byte

	// nodes lists the canvas nodes the event touches. It is nil for events
	// that are not about particular nodes.
	nodes []string
}

// streamFilter selects the events a client receives.
type streamFilter struct {
	topics []string // subject patterns, see events.MatchTopic; empty matches all
	node   string   // only node-scoped events touching this node
}

func (f streamFilter) match(e *streamEvent) bool {
	if f.node != "" && e.nodes != nil && !slices.Contains(e.nodes, f.node) {
		return false
	}
	if len(f.topics) == 0 {
		return true
	}
	return slices.ContainsFunc(f.topics, func(p string) bool {
		return events.MatchTopic(p, e.topic)
	})
}

type streamClient struct {
	filter streamFilter
	ch     chan *streamEvent
}

// eventStream fans events out to connected clients and keeps the last
// streamHistorySize of them for replay. A single lock orders appends,
// fan-out and subscription so a reconnecting client sees no gap.
type eventStream struct {
	metrics *Metrics

	mu      sync.Mutex
	seq     uint64
	history []*streamEvent // ring; oldest at head once full
	head    int
	clients map[*streamClient]struct{}
}

func newEventStream(m *Metrics) *eventStream {
	return &eventStream{
		metrics: m,
		history: make([]*streamEvent, 0, streamHistorySize),
		clients: make(map[*streamClient]struct{}),
	}
}

func (s *eventStream) publish(topic string, data []byte, nodes []string) *streamEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e := &streamEvent{seq: s.seq, topic: topic, data: data, nodes: nodes}
	if len(s.history) < streamHistorySize {
		s.history = append(s.history, e)
	} else {
		s.history[s.head] = e
		s.head = (s.head + 1) % streamHistorySize
	}

	for c := range s.clients {
		if !c.filter.match(e) {
			continue
		}
		select {
		case c.ch <- e:
		default:
			s.metrics.streamDropped.Inc()
		}
	}
	return e
}

// subscribe registers a client. With replay set it also returns the
// retained events after seq that match filter, oldest first.
func (s *eventStream) subscribe(filter streamFilter, after uint64, replay bool) (*streamClient, []*streamEvent) {
	c := &streamClient{filter: filter, ch: make(chan *streamEvent, streamClientBuffer)}

	s.mu.Lock()
	defer s.mu.Unlock()

	var backlog []*streamEvent
	if replay {
		n := len(s.history)
		for i := range n {
			e := s.history[(s.head+i)%n]
			if e.seq > after && filter.match(e) {
				backlog = append(backlog, e)
			}
		}
	}
	s.clients[c] = struct{}{}
	s.metrics.streamClients.Inc()
	return c, backlog
}

func (s *eventStream) unsubscribe(c *streamClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		s.metrics.streamClients.Dec()
	}
}

// toStream encodes event and hands it to the stream.
func (s *ScoreServer) toStream(topic string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to encode event for stream", "topic", topic, "error", err)
		return
	}
	var nodes []string
	if rc, ok := event.(*events.RecalculationCompleted); ok {
		nodes = append([]string{}, rc.AffectedNodes...)
	}
	s.stream.publish(topic, data, nodes)
}

// handleEventStream handles GET /v1/events/stream.
//
// Query parameters: topics (comma-separated subject patterns), node (only
// recalculations that reach this node) and since (a sequence number to
// replay after, for clients that cannot send Last-Event-ID).
func (s *ScoreServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	q := r.URL.Query()
	filter := streamFilter{topics: splitList(q.Get("topics")), node: q.Get("node")}

	resume := r.Header.Get("Last-Event-ID")
	if resume == "" {
		resume = q.Get("since")
	}
	after, err := strconv.ParseUint(resume, 10, 64)
	replay := resume != "" && err == nil

	c, backlog := s.stream.subscribe(filter, after, replay)
	defer s.stream.unsubscribe(c)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "retry: %d\n\n", streamRetry.Milliseconds())
	for _, e := range backlog {
		writeStreamEvent(w, e)
	}
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-c.ch:
			writeStreamEvent(w, e)
			flusher.Flush()
		case <-keepalive.C:
			io.WriteString(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeStreamEvent(w io.Writer, e *streamEvent) {
	fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", e.seq, e.topic, e.data)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
