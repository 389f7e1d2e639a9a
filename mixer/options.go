// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"log/slog"

	"github.com/ik5/audmix/backend"
)

// Option is an option for configuring an Engine.
type Option interface {
	apply(*Engine)
}

type loggerOption struct {
	logger *slog.Logger
}

func (o loggerOption) apply(e *Engine) {
	if o.logger != nil {
		e.logger = o.logger
	}
}

// WithLogger sets the logger lifecycle events are written to. Defaults to
// slog.Default(). Nothing is logged while rendering.
func WithLogger(logger *slog.Logger) Option {
	return loggerOption{logger: logger}
}

type registryOption struct {
	registry *backend.Registry
}

func (o registryOption) apply(e *Engine) {
	if o.registry != nil {
		e.registry = o.registry
	}
}

// WithRegistry sets where Initialize looks for a mixing component. Defaults
// to backend.Default.
func WithRegistry(r *backend.Registry) Option {
	return registryOption{registry: r}
}

type descriptionOption struct {
	desc backend.Description
}

func (o descriptionOption) apply(e *Engine) {
	e.desc = o.desc
}

// WithDescription selects which component Initialize asks for. Defaults to
// backend.MatrixMixer.
func WithDescription(desc backend.Description) Option {
	return descriptionOption{desc: desc}
}
