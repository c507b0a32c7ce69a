/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"snilstudio/internal/config"
	"snilstudio/internal/crash"
	"snilstudio/internal/export"
	"snilstudio/internal/fold"
	applog "snilstudio/internal/log"
	"snilstudio/internal/script"
	"snilstudio/internal/server"
	"snilstudio/internal/storage"
	"snilstudio/internal/telemetry"
	"snilstudio/internal/undo"
	"snilstudio/internal/version"
)

func usage() {
	fmt.Println("SNIL Studio — dialogue script editor core")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  snilstudio version|-v|--version          Show version")
	fmt.Println("  snilstudio graph <file>                   Compile a script and print its section graphs as JSON")
	fmt.Println("  snilstudio folds <file>                   Print the fold ranges of a script")
	fmt.Println("  snilstudio index <dir>                    Build or refresh the workspace index from its script")
	fmt.Println("  snilstudio search <dir> <query>           Full-text search over an indexed workspace")
	fmt.Println("  snilstudio export <file> <out> [format]   Export graphs (svg, dot or pdf; default svg)")
	fmt.Println("  snilstudio serve <dir>                    Serve the preview API for a workspace")
}

func main() {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	var workspace string
	var session *server.Session
	defer func() {
		textFn := func() string { return "" }
		if session != nil {
			textFn = func() string { t, _ := session.Text(); return t }
		}
		crash.Recover(workspace, textFn)
	}()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	rs := loadRuleset(cfg, l)

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("SNIL Studio — dialogue script editor core")
		fmt.Println(version.String())
		return

	case "graph":
		text := readScriptArg(args, l)
		sections := script.Parse(text, rs)
		nodes := 0
		for _, s := range sections {
			nodes += len(s.Nodes)
		}
		telemetry.Event("graph_build", map[string]any{"sections": len(sections), "nodes": nodes})
		printJSON(sections)
		return

	case "folds":
		text := readScriptArg(args, l)
		ranges := fold.Compute(strings.Split(text, "\n"))
		printJSON(ranges)
		return

	case "index":
		if len(args) < 3 {
			fmt.Println("index requires <dir>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		workspace = abs
		text := readWorkspaceScript(abs, l)
		rebuilt, err := storage.DetectAndRebuildIndex(context.Background(), abs, text, rs)
		if err != nil {
			fail(l, "index", err)
		}
		if !rebuilt {
			if err := storage.UpdateIndex(context.Background(), abs, text, rs); err != nil {
				fail(l, "index", err)
			}
		}
		telemetry.Event("index_rebuild", map[string]any{"rebuilt": rebuilt})
		fmt.Println("Index ready at", storage.IndexPath(abs))
		return

	case "search":
		if len(args) < 4 {
			fmt.Println("search requires <dir> and <query>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		workspace = abs
		res, err := storage.Search(context.Background(), abs, storage.SearchQuery{
			Text:        strings.Join(args[3:], " "),
			SectionFrom: -1,
			SectionTo:   -1,
		})
		if err != nil {
			fail(l, "search", err)
		}
		for _, r := range res {
			fmt.Printf("%s\t%s\t%s\n", r.Path, r.Type, r.Snippet)
		}
		if len(res) == 0 {
			fmt.Println("No matches.")
		}
		return

	case "export":
		if len(args) < 4 {
			fmt.Println("export requires <file> and <out>")
			usage()
			os.Exit(2)
		}
		text := readFile(args[2], l)
		sections := script.Parse(text, rs)
		format := "svg"
		if len(args) >= 5 {
			format = strings.ToLower(args[4])
		}
		out := args[3]
		switch format {
		case "svg":
			err = export.ExportSVG(sections, out, export.SVGOptions{})
		case "dot":
			err = export.ExportDOT(sections, out, nil)
		case "pdf":
			err = export.ExportPDF(sections, out, export.PDFOptions{
				Title: strings.TrimSuffix(filepath.Base(args[2]), filepath.Ext(args[2])),
			})
		default:
			fmt.Println("unknown format:", format)
			os.Exit(2)
		}
		if err != nil {
			fail(l, "export", err)
		}
		telemetry.Event("export_run", map[string]any{"format": format, "sections": len(sections)})
		fmt.Println("Exported", len(sections), "sections to", out)
		return

	case "serve":
		if len(args) < 3 {
			fmt.Println("serve requires <dir>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		workspace = abs
		text := readWorkspaceScript(abs, l)
		session = server.NewSession(text,
			server.WithRuleset(rs),
			server.WithWorkspace(abs),
			server.WithHistory(undo.Config{
				MaxPerDoc:   cfg.Snapshots.Keep,
				MinInterval: time.Duration(cfg.Snapshots.IntervalMs) * time.Millisecond,
			}),
		)
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		telemetry.Event("serve_start", nil)
		l.Info("serving preview API", slog.String("addr", addr), slog.String("root", abs))
		fmt.Println("Serving on http://" + addr)
		if err := http.ListenAndServe(addr, server.NewRouter(session)); err != nil {
			fail(l, "serve", err)
		}
		return

	default:
		usage()
		os.Exit(2)
	}
}

// loadRuleset resolves the classifier ruleset: a configured file when valid,
// otherwise the built-in rules with a warning.
func loadRuleset(cfg config.AppConfig, l *slog.Logger) *script.Ruleset {
	if cfg.RulesetPath == "" {
		return script.DefaultRuleset()
	}
	rs, err := config.LoadRuleset(cfg.RulesetPath)
	if err != nil {
		l.Warn("ruleset invalid, using built-in rules", slog.Any("err", err))
		return script.DefaultRuleset()
	}
	return rs
}

func readScriptArg(args []string, l *slog.Logger) string {
	if len(args) < 3 {
		fmt.Println(args[1], "requires <file>")
		usage()
		os.Exit(2)
	}
	return readFile(args[2], l)
}

func readFile(path string, l *slog.Logger) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fail(l, "read script", err)
	}
	return string(data)
}

// readWorkspaceScript loads the canonical script of a workspace, falling
// back to the latest snapshot when the file does not exist yet.
func readWorkspaceScript(root string, l *slog.Logger) string {
	if data, err := os.ReadFile(storage.ScriptPath(root)); err == nil {
		return string(data)
	}
	txt, _, err := storage.GetLatestScriptSnapshot(context.Background(), root)
	if err != nil {
		l.Warn("no script file and no snapshot", slog.Any("err", err))
	}
	return txt
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(l *slog.Logger, op string, err error) {
	l.Error(op+" failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}
