/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot represents a reversible text state for one document.
// Size is estimated as len(Text). TS is when the snapshot was captured.
type Snapshot struct {
	Doc  string
	Text string
	TS   time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerDoc limits snapshots per document kept in memory (0 means unlimited).
	MaxPerDoc int
	// MinInterval coalesces snapshots captured within the interval for the
	// same document, replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per document with
// performance safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-document stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	// Set conservative defaults if not provided
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot. If within MinInterval from the last
// snapshot of the same document, it replaces the last one. Clears the redo
// stack for that document.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Doc]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: adjust accounting and replace
			m.totalBytes -= len(last.Text)
			m.totalBytes += len(s.Text)
			stack[n-1] = s
			m.undo[s.Doc] = stack
			m.redo[s.Doc] = nil
			m.enforceCapsLocked(s.Doc)
			return
		}
	}
	stack = append(stack, s)
	m.undo[s.Doc] = stack
	m.totalBytes += len(s.Text)
	// Any new change invalidates redo for the document
	m.redo[s.Doc] = nil
	m.enforceCapsLocked(s.Doc)
}

// Undo pops from the document's undo stack and pushes to its redo stack,
// returning the snapshot.
func (m *Manager) Undo(doc string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[doc]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[doc] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Text)
	m.redo[doc] = append(m.redo[doc], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(doc string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[doc]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[doc] = r[:len(r)-1]
	m.undo[doc] = append(m.undo[doc], s)
	m.totalBytes += len(s.Text)
	m.enforceCapsLocked(doc)
	return s, true
}

// ClearDoc clears undo/redo stacks for a document to free memory.
func (m *Manager) ClearDoc(doc string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[doc] {
		m.totalBytes -= len(s.Text)
	}
	delete(m.undo, doc)
	delete(m.redo, doc)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, docs int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, docs, totalSnapshots
}

func (m *Manager) enforceCapsLocked(doc string) {
	// Per-document depth cap
	if m.cfg.MaxPerDoc > 0 {
		stack := m.undo[doc]
		if len(stack) > m.cfg.MaxPerDoc {
			// drop the oldest extras
			toDrop := len(stack) - m.cfg.MaxPerDoc
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Text)
			}
			m.undo[doc] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all documents
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestDoc := ""
		oldestIdx := -1
		var oldestTS time.Time
		for d, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestDoc = d
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestDoc]
		m.totalBytes -= len(stack[0].Text)
		m.undo[oldestDoc] = stack[1:]
		if len(m.undo[oldestDoc]) == 0 {
			delete(m.undo, oldestDoc)
		}
	}
}
