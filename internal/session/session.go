// Package session owns the resolver of a debug session and swaps it when
// the launch configuration changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/philjestin/pathresolver/internal/launch"
	"github.com/philjestin/pathresolver/internal/resolver"
)

// ErrNotLoaded is returned before the first successful Reload.
var ErrNotLoaded = errors.New("session has no configuration")

// State is one loaded configuration and the resolver built from it. A State
// is never modified after it is published.
type State struct {
	ID       uuid.UUID
	Config   *launch.Config
	Resolver resolver.Resolver
	LoadedAt time.Time
}

// Manager publishes the current State. Lookups that already hold a State
// keep using it while a reload builds the next one.
type Manager struct {
	factory   *resolver.Factory
	source    launch.Source
	workspace string
	log       logrus.FieldLogger

	current atomic.Pointer[State]
	reloads atomic.Int64
}

func NewManager(factory *resolver.Factory, source launch.Source, workspace string, log logrus.FieldLogger) *Manager {
	return &Manager{
		factory:   factory,
		source:    source,
		workspace: workspace,
		log:       log.WithField("component", "session"),
	}
}

// Reload reads the configuration from the source and publishes a resolver
// for it. On error the previous State stays in place.
func (m *Manager) Reload(ctx context.Context) (*State, error) {
	cfg, err := m.source.Load(ctx, m.workspace)
	if err != nil {
		m.log.WithError(err).Warn("load launch configuration")
		return nil, fmt.Errorf("reload: %w", err)
	}
	return m.Apply(cfg)
}

// Apply publishes a resolver for cfg. cfg must not be modified afterwards.
func (m *Manager) Apply(cfg *launch.Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st := &State{
		ID:       uuid.New(),
		Config:   cfg,
		Resolver: m.factory.Create(cfg),
		LoadedAt: time.Now(),
	}
	prev := m.current.Swap(st)
	n := m.reloads.Add(1)

	fields := logrus.Fields{
		"session": st.ID.String(),
		"name":    cfg.Name,
		"type":    string(cfg.Type),
		"variant": st.Resolver.Variant().String(),
		"reloads": n,
	}
	if prev != nil {
		fields["previous"] = prev.ID.String()
	}
	m.log.WithFields(fields).Info("resolver ready")
	return st, nil
}

// Current returns the published State, or nil before the first load.
func (m *Manager) Current() *State { return m.current.Load() }

// Resolver returns the current resolver.
func (m *Manager) Resolver() (resolver.Resolver, error) {
	st := m.current.Load()
	if st == nil {
		return nil, ErrNotLoaded
	}
	return st.Resolver, nil
}
