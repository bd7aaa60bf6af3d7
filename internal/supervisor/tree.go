// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package supervisor runs Marquee's long-lived services under a suture v4
// supervisor tree.
//
// The tree has two layers below the root:
//
//	marquee
//	├── model   reload service, cache janitor
//	└── api     HTTP server
//
// Each layer restarts its own services. A model-layer crash never takes the
// API down; requests keep using the last good model held by the
// recommend.Holder.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names a subtree of the supervisor.
type Layer string

// Layers.
const (
	LayerModel Layer = "model"
	LayerAPI   Layer = "api"
)

// TreeConfig holds supervisor tree configuration. Zero fields take the
// DefaultTreeConfig values.
type TreeConfig struct {
	// FailureThreshold is the number of failures before a layer backs off.
	FailureThreshold float64

	// FailureDecay is the failure half-life in seconds.
	FailureDecay float64

	// ModelBackoff is how long the model layer pauses after crossing the
	// threshold. Rebuilds hit the catalog source, so it is long.
	ModelBackoff time.Duration

	// APIBackoff is the equivalent pause for the API layer.
	APIBackoff time.Duration

	// ShutdownTimeout bounds how long each service gets to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		ModelBackoff:     30 * time.Second,
		APIBackoff:       2 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c *TreeConfig) applyDefaults() error {
	if c.FailureThreshold < 0 || c.FailureDecay < 0 || c.ModelBackoff < 0 || c.APIBackoff < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("supervisor config values must be non-negative: %+v", *c)
	}
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.ModelBackoff == 0 {
		c.ModelBackoff = d.ModelBackoff
	}
	if c.APIBackoff == 0 {
		c.APIBackoff = d.APIBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return nil
}

// SupervisorTree is the root supervisor plus its layers.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	logger *slog.Logger
	config TreeConfig

	mu       sync.Mutex
	services map[Layer][]string
}

// NewSupervisorTree creates the tree. Supervisor events are logged through
// logger via sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, errors.New("supervisor tree requires a logger")
	}
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	// MustHook has a pointer receiver.
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	root := suture.New("marquee", suture.Spec{
		EventHook:        hook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.APIBackoff,
		Timeout:          config.ShutdownTimeout,
	})

	layer := func(name Layer, backoff time.Duration) *suture.Supervisor {
		// The root's EventHook is inherited on Add.
		s := suture.New(string(name), suture.Spec{
			FailureThreshold: config.FailureThreshold,
			FailureDecay:     config.FailureDecay,
			FailureBackoff:   backoff,
			Timeout:          config.ShutdownTimeout,
		})
		root.Add(s)
		return s
	}

	return &SupervisorTree{
		root: root,
		layers: map[Layer]*suture.Supervisor{
			LayerModel: layer(LayerModel, config.ModelBackoff),
			LayerAPI:   layer(LayerAPI, config.APIBackoff),
		},
		logger:   logger,
		config:   config,
		services: make(map[Layer][]string),
	}, nil
}

// Add supervises svc in the given layer.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) (suture.ServiceToken, error) {
	sup, ok := t.layers[layer]
	if !ok {
		return suture.ServiceToken{}, fmt.Errorf("unknown supervisor layer %q", layer)
	}

	t.mu.Lock()
	t.services[layer] = append(t.services[layer], serviceName(svc))
	t.mu.Unlock()

	return sup.Add(svc), nil
}

// Services returns the service names added to each layer, sorted.
func (t *SupervisorTree) Services() map[Layer][]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[Layer][]string, len(t.services))
	for layer, names := range t.services {
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		out[layer] = sorted
	}
	return out
}

// Run serves the tree until ctx is done. Cancellation is a clean stop and
// returns nil. Services still running after the shutdown timeout are logged.
func (t *SupervisorTree) Run(ctx context.Context) error {
	services := t.Services()
	t.logger.Info("supervisor tree starting",
		"model", services[LayerModel],
		"api", services[LayerAPI])

	err := t.root.Serve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}

	if report, reportErr := t.root.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		names := make([]string, len(report))
		for i, svc := range report {
			names[i] = svc.Name
		}
		t.logger.Warn("services did not stop within the shutdown timeout", "services", names)
	}
	return err
}

func serviceName(svc suture.Service) string {
	if s, ok := svc.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", svc)
}
