package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/json"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Caller    ehparse.Caller
	Validator *json.Validator
	Converter ehparse.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Parse ParseCmd `cmd:"" help:"Parse a saved page through an entry point"`
	Batch BatchCmd `cmd:"" help:"Parse many saved pages and print a digest per file"`
	Kinds KindsCmd `cmd:"" help:"List page kinds and their entry points"`
}

// CallerFlags select how boundary calls are made.
type CallerFlags struct {
	Wasm     string        `short:"w" help:"Run entry points from a WebAssembly module"`
	Policy   string        `short:"P" help:"Shortfall policy file (YAML)"`
	Tolerant bool          `help:"Replace invalid UTF-8 instead of failing"`
	Timeout  time.Duration `default:"5s" help:"Per-call timeout for WebAssembly modules"`
	Verbose  bool          `short:"v" help:"Log every decode, extract and serialize step"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	CallerFlags `embed:""`

	Kind     string `arg:"" help:"Page kind (see 'ehparse kinds')"`
	File     string `arg:"" type:"existingfile" help:"Saved HTML page"`
	Capacity int    `short:"c" help:"Buffer capacity in bytes (default: input length plus headroom)"`
	Format   string `short:"f" enum:"json,text" default:"json" help:"Output format (json, text)"`
	Validate bool   `help:"Check the result against the JSON Schema of the kind"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	CallerFlags `embed:""`

	Kind        string   `arg:"" help:"Page kind (see 'ehparse kinds')"`
	Files       []string `arg:"" help:"Saved HTML pages"`
	Capacity    int      `short:"c" help:"Buffer capacity in bytes (default: input length plus headroom)"`
	Concurrency int      `short:"j" default:"8" help:"Concurrent call limit"`
	Grow        bool     `help:"Retry too-large results with a doubled buffer"`
	Out         string   `short:"o" help:"Directory to write successful results to, replaced atomically"`
}

// KindsCmd is the "kinds" subcommand.
type KindsCmd struct{}
