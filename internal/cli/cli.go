// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdSessions
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Flag overrides; empty means "use configured value".
	APIURL  string
	Model   string
	Storage string

	// Query is the text for the ask command.
	Query string

	// Raw args remaining after flag parsing.
	Raw []string
}

const usageText = `moodlens - emotion classification chat for the terminal

Moodlens talks to an emotion classification service and shows the
predicted emotion distribution for everything you type. Conversations
are persisted locally.

Usage:
  moodlens                   Start TUI (default)
  moodlens ask "some text"   Classify one text and print the distribution
  moodlens sessions          List persisted chat sessions
  moodlens version           Show version information
  moodlens help              Show this help

Flags:
  --api-url URL              Classification service endpoint
  --model NAME               Model to use: bert or naive_bayes
  --storage KIND             Storage backend: file or sqlite

Environment:
  MOODLENS_API_URL, MOODLENS_MODEL, MOODLENS_THEME,
  MOODLENS_STORAGE, MOODLENS_DATA_DIR

Configuration:
  ~/.moodlens/config.toml    Optional config file
  ~/.moodlens/state          Conversation storage (file backend)
`

// Usage returns the top-level usage text.
func Usage() string {
	return usageText
}

// Parse interprets the raw arguments (without the program name).
func Parse(args []string) (Command, Args) {
	remaining, parsed := parseFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parsed.Query = strings.Join(remaining, " ")
		return CmdAsk, parsed

	case "session", "sessions":
		return CmdSessions, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown leading word: treat the whole line as an ask query,
		// so `moodlens how are you` still works.
		parsed.Query = strings.TrimSpace(cmd + " " + strings.Join(remaining, " "))
		return CmdAsk, parsed
	}
}

// parseFlags strips the shared flags from the argument list.
func parseFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		name, value, hasValue := splitFlag(arg)
		takeValue := func() string {
			if hasValue {
				return value
			}
			if i+1 < len(args) {
				i++
				return args[i]
			}
			return ""
		}

		switch name {
		case "--api-url":
			parsed.APIURL = takeValue()
		case "--model":
			parsed.Model = takeValue()
		case "--storage":
			parsed.Storage = takeValue()
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsed
}

// splitFlag handles both "--flag=value" and "--flag value" forms.
func splitFlag(arg string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(arg, "--") {
		return arg, "", false
	}
	if idx := strings.Index(arg, "="); idx > 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("moodlens %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}
