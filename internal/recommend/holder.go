// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
)

// Holder publishes the current Model. Readers never block; Reload builds a
// replacement off to the side and swaps it in only on success.
type Holder struct {
	src  catalog.Source
	opts BuildOptions

	current  atomic.Pointer[Model]
	reloadMu sync.Mutex
}

// NewHolder creates a Holder serving initial, which may be nil until the
// first Reload.
func NewHolder(src catalog.Source, opts BuildOptions, initial *Model) *Holder {
	h := &Holder{src: src, opts: opts}
	if initial != nil {
		h.current.Store(initial)
	}
	return h
}

// Current returns the active model, or nil if none has been built.
func (h *Holder) Current() *Model {
	return h.current.Load()
}

// Set replaces the active model.
func (h *Holder) Set(m *Model) {
	h.current.Store(m)
}

// Reload rebuilds the model from the source. Concurrent calls are
// serialized. On failure the previous model stays active.
func (h *Holder) Reload(ctx context.Context) (*Model, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	logger := logging.WithComponent("recommend")
	logger.Info().Str("source", h.src.Name()).Msg("Reloading model")

	m, err := Build(ctx, h.src, h.opts)
	if err != nil {
		if prev := h.current.Load(); prev != nil {
			logger.Warn().Uint64("model_version", prev.Version).Msg("Reload failed, keeping previous model")
		}
		return nil, err
	}

	h.current.Store(m)
	return m, nil
}
