/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package server exposes one editing session over HTTP: the script text,
// its compiled section graphs, fold state and completion queries, plus a
// websocket stream that tells preview clients when to re-fetch. All state
// derives from the script text; replacing it recomputes everything.
package server

import (
	"context"
	"strings"
	"sync"
	"time"

	"log/slog"

	applog "snilstudio/internal/log"
	"snilstudio/internal/complete"
	"snilstudio/internal/fold"
	"snilstudio/internal/script"
	"snilstudio/internal/storage"
	"snilstudio/internal/undo"
)

// historyDoc keys the session's single document in the undo manager.
const historyDoc = "script"

// Update is the event broadcast to subscribers after a script change.
type Update struct {
	Type     string `json:"type"`
	Revision int64  `json:"revision"`
}

// Session holds the mutable editing state for one script document. A mutex
// serializes all access; the compute work per change is small enough that
// finer locking buys nothing.
type Session struct {
	mu       sync.Mutex
	text     string
	lines    []string
	revision int64
	rs       *script.Ruleset
	sections []script.Section
	folds    *fold.State
	resolver *complete.Resolver
	history  *undo.Manager

	// root, when set, points at a workspace whose index and snapshot
	// history track the session. Empty means in-memory only.
	root string

	subscribers map[chan Update]struct{}
	log         *slog.Logger
}

// Option configures a Session at construction.
type Option func(*Session)

// WithRuleset sets the classifier ruleset. Nil keeps the built-in one.
func WithRuleset(rs *script.Ruleset) Option {
	return func(s *Session) {
		if rs != nil {
			s.rs = rs
		}
	}
}

// WithWorkspace binds the session to a workspace root for index updates
// and snapshot history.
func WithWorkspace(root string) Option {
	return func(s *Session) { s.root = root }
}

// WithResolver sets the completion resolver. Nil keeps an empty one.
func WithResolver(r *complete.Resolver) Option {
	return func(s *Session) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithHistory tunes the undo history caps and coalescing interval.
func WithHistory(cfg undo.Config) Option {
	return func(s *Session) { s.history = undo.NewManager(cfg) }
}

// NewSession returns a session holding the given initial script text.
func NewSession(text string, opts ...Option) *Session {
	s := &Session{
		rs:          script.DefaultRuleset(),
		folds:       fold.NewState(),
		resolver:    &complete.Resolver{},
		history:     undo.NewManager(undo.Config{}),
		subscribers: map[chan Update]struct{}{},
		log:         applog.WithComponent("server"),
	}
	for _, o := range opts {
		o(s)
	}
	s.mu.Lock()
	s.replaceLocked(text)
	s.mu.Unlock()
	return s
}

// Replace swaps the script text, recompiles sections, recomputes fold
// ranges and notifies subscribers. The replaced text becomes a restore
// point in the undo history. It returns the new revision.
func (s *Session) Replace(ctx context.Context, text string) int64 {
	s.mu.Lock()
	s.history.PushSnapshot(undo.Snapshot{Doc: historyDoc, Text: s.text, TS: time.Now()})
	rev := s.applyLocked(ctx, text)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, rev)
	return rev
}

// Undo restores the newest restore point. It reports false when the
// history is empty; the revision still advances on success so clients
// treat the restore like any other change.
func (s *Session) Undo(ctx context.Context) (int64, bool) {
	s.mu.Lock()
	snap, ok := s.history.Undo(historyDoc)
	if !ok {
		rev := s.revision
		s.mu.Unlock()
		return rev, false
	}
	rev := s.applyLocked(ctx, snap.Text)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, rev)
	return rev, true
}

// Redo re-applies the most recently undone restore point.
func (s *Session) Redo(ctx context.Context) (int64, bool) {
	s.mu.Lock()
	snap, ok := s.history.Redo(historyDoc)
	if !ok {
		rev := s.revision
		s.mu.Unlock()
		return rev, false
	}
	rev := s.applyLocked(ctx, snap.Text)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	s.notify(subs, rev)
	return rev, true
}

// applyLocked installs text and, for workspace sessions, writes the index
// and snapshot while still holding the mutex so persisted history stays in
// revision order across overlapping calls.
func (s *Session) applyLocked(ctx context.Context, text string) int64 {
	rev := s.replaceLocked(text)
	if s.root != "" {
		if err := storage.UpdateIndex(ctx, s.root, text, s.rs); err != nil {
			s.log.Warn("index update failed", slog.Any("err", err))
		}
		if err := storage.SaveScriptSnapshot(ctx, s.root, text, time.Now()); err != nil {
			s.log.Warn("snapshot save failed", slog.Any("err", err))
		}
	}
	return rev
}

func (s *Session) subscribersLocked() []chan Update {
	subs := make([]chan Update, 0, len(s.subscribers))
	for ch := range s.subscribers {
		subs = append(subs, ch)
	}
	return subs
}

func (s *Session) notify(subs []chan Update, rev int64) {
	u := Update{Type: "script_updated", Revision: rev}
	for _, ch := range subs {
		select {
		case ch <- u:
		default:
			// Slow subscriber; it will re-sync on the next event it reads.
		}
	}
}

func (s *Session) replaceLocked(text string) int64 {
	s.text = text
	s.lines = strings.Split(text, "\n")
	s.sections = script.Parse(text, s.rs)
	s.folds.Recompute(s.lines)
	s.revision++
	return s.revision
}

// Text returns the current script text and revision.
func (s *Session) Text() (string, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.revision
}

// Sections returns the compiled section graphs of the current revision.
func (s *Session) Sections() []script.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]script.Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Section returns one section by index.
func (s *Session) Section(i int) (script.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.sections) {
		return script.Section{}, false
	}
	return s.sections[i], true
}

// Folds returns the current fold ranges and the folded start lines.
func (s *Session) Folds() (fold.Ranges, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folds.Ranges(), s.folds.Folded()
}

// ToggleFold flips the fold starting at line. It reports whether the line
// is folded after the call and whether a range starts there at all.
func (s *Session) ToggleFold(line int) (folded, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok = s.folds.Range(line); !ok {
		return false, false
	}
	return s.folds.Toggle(line), true
}

// Complete resolves a completion context for a cursor position in the
// current text. Line indexes outside the document resolve to nil.
func (s *Session) Complete(line, cursor int) (*complete.Context, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line < 0 || line >= len(s.lines) {
		return nil, nil
	}
	ctx := s.resolver.Resolve(s.lines[line], cursor)
	if ctx == nil {
		return nil, nil
	}
	return ctx, s.resolver.Candidates(ctx)
}

// Subscribe registers an update channel. The caller must drain it and call
// Unsubscribe when done.
func (s *Session) Subscribe() chan Update {
	ch := make(chan Update, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes an update channel.
func (s *Session) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()
}

// Ruleset returns the session's classifier ruleset.
func (s *Session) Ruleset() *script.Ruleset { return s.rs }

// Workspace returns the bound workspace root, empty when in-memory.
func (s *Session) Workspace() string { return s.root }
