// Copyright (c) 2025 Alexey Mayshev and contributors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pslog provides a plug-in marten.Logger wrapping slog.Logger for usage in
// a marten.Cache.
//
// This can be used like so:
//
//		cache := marten.Must(&marten.Options[string, string]{
//	         Logger: pslog.New(slog.Default()),
//		     // ...other opts
//		})
package pslog

import (
	"context"
	"log/slog"

	"github.com/marten-cache/marten"
)

var _ marten.Logger = (*Logger)(nil)

const defaultErrorKey = "err"

// Option applies options to the logger.
type Option func(*options)

type options struct {
	errorKey string
	attrs    []slog.Attr
}

// WithErrorKey sets the attribute key under which errors are logged. The default is "err".
func WithErrorKey(key string) Option {
	return func(o *options) {
		o.errorKey = key
	}
}

// WithAttrs adds attributes to every record written by the logger.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// Logger that wraps the slog.Logger.
type Logger struct {
	log      *slog.Logger
	errorKey string
}

// New returns a new Logger.
func New(log *slog.Logger, opts ...Option) *Logger {
	if log == nil {
		panic("pslog: log is nil")
	}

	o := &options{
		errorKey: defaultErrorKey,
	}
	for _, opt := range opts {
		opt(o)
	}

	if len(o.attrs) > 0 {
		args := make([]any, 0, len(o.attrs))
		for _, a := range o.attrs {
			args = append(args, a)
		}
		log = log.With(args...)
	}

	return &Logger{
		log:      log,
		errorKey: o.errorKey,
	}
}

// Warn is for the marten.Logger interface.
func (l *Logger) Warn(ctx context.Context, msg string, err error) {
	l.log.WarnContext(ctx, msg, slog.Any(l.errorKey, err))
}

// Error is for the marten.Logger interface.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.log.ErrorContext(ctx, msg, slog.Any(l.errorKey, err))
}
