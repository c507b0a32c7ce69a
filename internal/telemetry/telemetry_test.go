/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SNIL_TELEMETRY_OPT_IN", "")
	t.Setenv("SNIL_TELEMETRY_URL", "")
	t.Setenv("SNIL_TELEMETRY_TIMEOUT_MS", "")
	cfg := FromEnv()
	if cfg.OptIn {
		t.Fatalf("telemetry must be opt-in")
	}
	if cfg.Timeout != 1500*time.Millisecond {
		t.Fatalf("unexpected default timeout %v", cfg.Timeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SNIL_TELEMETRY_OPT_IN", "yes")
	t.Setenv("SNIL_TELEMETRY_URL", "http://localhost/events")
	t.Setenv("SNIL_TELEMETRY_TIMEOUT_MS", "250")
	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "http://localhost/events" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Fatalf("unexpected timeout %v", cfg.Timeout)
	}
}

func TestClientDisabledDropsEvents(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
	}))
	defer srv.Close()

	c := New(Config{OptIn: false, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.Event("graph_build", nil)
	c.Flush(context.Background())
	mu.Lock()
	defer mu.Unlock()
	if hits != 0 {
		t.Fatalf("disabled client must not send, got %d hits", hits)
	}
}

func TestClientSendsEvent(t *testing.T) {
	type payload struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Nodes   int    `json:"nodes"`
	}
	got := make(chan payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		got <- p
	}))
	defer srv.Close()

	c := New(Config{OptIn: true, EventsURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.Event("graph_build", map[string]any{"nodes": 7})
	select {
	case p := <-got:
		if p.Name != "graph_build" || p.Nodes != 7 {
			t.Fatalf("unexpected payload %+v", p)
		}
		if p.Version == "" {
			t.Fatalf("payload must carry the app version")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received")
	}
}

func TestUploadCrash(t *testing.T) {
	got := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		got <- buf
	}))
	defer srv.Close()

	c := New(Config{OptIn: true, CrashURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	c.UploadCrash([]byte("report body"))
	select {
	case b := <-got:
		if string(b) != "report body" {
			t.Fatalf("unexpected report %q", b)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no crash report received")
	}
}
