// Package library holds the read-only component and tier catalog the engine
// resolves nodes against.
//
// A Library is constructed by the caller around a Source and loaded once with
// Load. Load is idempotent and single-flight: concurrent callers share a
// single fetch, and a failed load may be retried.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/singleflight"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// ErrNotLoaded is returned by operations that need a loaded library.
var ErrNotLoaded = errors.New("library not loaded")

// DefaultFetchTimeout bounds a single shared catalog fetch.
const DefaultFetchTimeout = 30 * time.Second

// Library is a caller-owned snapshot of a component catalog.
// Lookups before a successful Load report not-found.
type Library struct {
	src        Source
	logger     *slog.Logger
	constraint *semver.Constraints
	timeout    time.Duration

	flight singleflight.Group

	mu   sync.RWMutex
	snap *snapshot
}

type snapshot struct {
	catalog    *model.Catalog
	components []*model.Component
	byID       map[string]*model.Component
	byCategory map[model.ComponentCategory][]*model.Component
	tiers      []model.TierDefinition
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger used to report loads.
func WithLogger(l *slog.Logger) Option {
	return func(lib *Library) { lib.logger = l }
}

// WithFetchTimeout bounds each shared fetch. The fetch outlives the caller
// that started it, so this is its only deadline.
func WithFetchTimeout(d time.Duration) Option {
	return func(lib *Library) { lib.timeout = d }
}

// WithSchemaConstraint overrides the accepted catalog schema_version range.
func WithSchemaConstraint(c *semver.Constraints) Option {
	return func(lib *Library) { lib.constraint = c }
}

// New returns an unloaded Library reading from src.
func New(src Source, opts ...Option) *Library {
	l := &Library{
		src:        src,
		logger:     slog.Default(),
		constraint: SupportedSchema,
		timeout:    DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the source the library loads from.
func (l *Library) Source() Source {
	return l.src
}

// Load fetches, validates and indexes the catalog. It returns nil immediately
// once a load has succeeded.
//
// Concurrent callers share one fetch. A caller whose ctx ends stops waiting
// with ctx.Err() but the shared fetch carries on for the others.
func (l *Library) Load(ctx context.Context) error {
	if l.Loaded() {
		return nil
	}
	ch := l.flight.DoChan("load", func() (any, error) {
		if l.Loaded() {
			return nil, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return nil, l.load(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Library) load(ctx context.Context) error {
	cat, err := l.src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog from %s: %w", l.src, err)
	}
	if err := CheckSchemaVersion(l.constraint, cat.SchemaVersion); err != nil {
		return err
	}
	if err := model.ValidateCatalog(cat); err != nil {
		return fmt.Errorf("catalog from %s: %w", l.src, err)
	}

	snap, err := index(cat)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.snap = snap
	l.mu.Unlock()

	l.logger.Info("library loaded",
		"source", l.src.String(),
		"schema_version", cat.SchemaVersion,
		"components", len(snap.components),
		"tiers", len(snap.tiers))
	return nil
}

func index(cat *model.Catalog) (*snapshot, error) {
	s := &snapshot{
		catalog:    cat,
		components: make([]*model.Component, len(cat.Components)),
		byID:       make(map[string]*model.Component, len(cat.Components)),
		byCategory: make(map[model.ComponentCategory][]*model.Component),
		tiers:      make([]model.TierDefinition, 0, len(cat.Tiers)),
	}
	for i := range cat.Components {
		c := &cat.Components[i]
		s.components[i] = c
		s.byID[c.ID] = c
		s.byCategory[c.Category] = append(s.byCategory[c.Category], c)
	}
	for _, ts := range cat.Tiers {
		def, err := ts.Definition()
		if err != nil {
			return nil, err
		}
		s.tiers = append(s.tiers, def)
	}
	return s, nil
}

func (l *Library) current() *snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Loaded reports whether a load has succeeded.
func (l *Library) Loaded() bool {
	return l.current() != nil
}

// GetComponent returns the component with the given id.
func (l *Library) GetComponent(id string) (*model.Component, bool) {
	s := l.current()
	if s == nil {
		return nil, false
	}
	c, ok := s.byID[id]
	return c, ok
}

// ComponentsByCategory returns the components of one category in catalog order.
func (l *Library) ComponentsByCategory(cat model.ComponentCategory) []*model.Component {
	s := l.current()
	if s == nil {
		return nil
	}
	return append([]*model.Component(nil), s.byCategory[cat]...)
}

// Components returns every component in catalog order.
func (l *Library) Components() []*model.Component {
	s := l.current()
	if s == nil {
		return nil
	}
	return append([]*model.Component(nil), s.components...)
}

// Tiers returns the tier definitions in evaluation order.
func (l *Library) Tiers() []model.TierDefinition {
	s := l.current()
	if s == nil {
		return nil
	}
	return append([]model.TierDefinition(nil), s.tiers...)
}

// Catalog returns the loaded catalog document, or nil before load.
func (l *Library) Catalog() *model.Catalog {
	s := l.current()
	if s == nil {
		return nil
	}
	return s.catalog
}
