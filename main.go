// moodlens TUI - a terminal chat client for emotion classification.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/moodlens/moodlens-tui/internal/classify"
	"github.com/moodlens/moodlens-tui/internal/cli"
	"github.com/moodlens/moodlens-tui/internal/config"
	"github.com/moodlens/moodlens-tui/internal/controller"
	"github.com/moodlens/moodlens-tui/internal/session"
	"github.com/moodlens/moodlens-tui/internal/storage"
	"github.com/moodlens/moodlens-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// settingsDebounce is how long the config watcher waits for a burst of
// file events to settle before reloading.
const settingsDebounce = 250 * time.Millisecond

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion()
		return
	case cli.CmdHelp:
		cli.HandleHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	applyFlagOverrides(cfg, args)

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		fatal(err)
	}
	cfg.DataDir = dataDir

	kv, err := openKV(cfg)
	if err != nil {
		fatal(err)
	}
	defer kv.Close()

	gateway := storage.NewGateway(kv, cfg.Settings)

	// Persisted settings win over config-file defaults; explicit flags
	// win over both.
	cfg.Settings = gateway.LoadSettings()
	applyFlagOverrides(cfg, args)

	switch cmd {
	case cli.CmdAsk:
		if err := cli.HandleAsk(*cfg, args); err != nil {
			fatal(err)
		}
	case cli.CmdSessions:
		if err := cli.HandleSessions(gateway); err != nil {
			fatal(err)
		}
	default:
		if err := runTUI(cfg, gateway, kv); err != nil {
			fatal(err)
		}
	}
}

// runTUI wires the store, controller, and Bubble Tea program, and
// keeps them fed with settings reloads from the config watcher.
func runTUI(cfg *config.Config, gateway *storage.Gateway, kv storage.KV) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("moodlens requires a terminal; try `moodlens ask \"some text\"` for one-shot use")
	}

	// The TUI owns stdout, so the default logger goes to a file.
	restoreLog := redirectLog()
	defer restoreLog()

	store := session.New(gateway)
	store.Initialize()

	client := classify.NewClient(cfg.Settings.APIURL)
	ctrl := controller.New(store, client, cfg.Settings)
	view := chat.New(store, ctrl, gateway, *cfg)

	program := tea.NewProgram(view, tea.WithAltScreen())

	// Reload settings when another process rewrites them on disk.
	if fileKV, ok := kv.(*storage.FileKV); ok {
		watcher, err := storage.NewWatcher(fileKV.Dir(), settingsDebounce, func(key string) {
			if key != storage.KeySettings {
				return
			}
			program.Send(chat.SettingsReloadedMsg{Settings: gateway.LoadSettings()})
		})
		if err != nil {
			log.Printf("settings watcher unavailable: %v", err)
		} else if err := watcher.Watch(); err != nil {
			log.Printf("settings watcher failed to start: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	_, err := program.Run()
	return err
}

// openKV selects the storage backend from the config.
func openKV(cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return storage.NewSQLiteKV(filepath.Join(cfg.DataDir, "moodlens.db"))
	default:
		return storage.NewFileKV(cfg.DataDir)
	}
}

// applyFlagOverrides layers explicit CLI flags over the config.
func applyFlagOverrides(cfg *config.Config, args cli.Args) {
	if args.APIURL != "" {
		cfg.Settings.APIURL = args.APIURL
	}
	if args.Model != "" {
		cfg.Settings.ModelType = args.Model
	}
	if args.Storage != "" {
		cfg.Storage = args.Storage
	}
	cfg.Settings.Normalize()
}

// redirectLog sends the default logger to the log file and returns a
// cleanup func. Logging falls back to discard if the file cannot be
// opened; the TUI must never share stdout with the logger.
func redirectLog() func() {
	path, err := config.LogPath()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
