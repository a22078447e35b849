// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package elog provides the slog handler behind element logging sinks:
// one plain line per record, the message first, attrs as key=value pairs,
// group names dotted onto their attr keys. No time or level prefix, since
// the rendered element is the point of the line.
package elog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/jba/slog/withsupport"
)

// Options configure a Handler.
type Options struct {
	// Level reports the minimum record level that will be logged.
	// The handler assumes Level doesn't change between calls.
	// Default: slog.LevelInfo.
	Level slog.Leveler
}

// Handler is a plain text line per record slog.Handler.
type Handler struct {
	opts Options
	goa  *withsupport.GroupOrAttrs

	mu  *sync.Mutex
	out io.Writer
}

var _ slog.Handler = (*Handler)(nil)

// New returns a Handler writing to out.
func New(out io.Writer, opts *Options) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.goa = h.goa.WithGroup(name)
	return &h2
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.goa = h.goa.WithAttrs(attrs)
	return &h2
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	groups := h.goa.Apply(func(gs []string, a slog.Attr) {
		writeAttr(&b, gs, a)
	})
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, groups, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func writeAttr(b *strings.Builder, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		gs := groups
		if a.Key != "" {
			gs = append(gs, a.Key)
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, gs, ga)
		}
		return
	}
	b.WriteByte(' ')
	for _, g := range groups {
		b.WriteString(g)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}
