package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/ehentai"
	"github.com/ehviewer/ehparse/html"
	"github.com/ehviewer/ehparse/htmltomarkdown"
	"github.com/ehviewer/ehparse/json"
	"github.com/ehviewer/ehparse/marshal"
	ehslog "github.com/ehviewer/ehparse/slog"
	"github.com/ehviewer/ehparse/wazero"
	"github.com/ehviewer/ehparse/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Runner is set when calls go through a WebAssembly module.
	Runner *wazero.Runner
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close(ctx context.Context) error {
	if m.Runner != nil {
		return m.Runner.Close(ctx)
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ehparse"),
		kong.Description("Run EhViewer page parsers through the marshal-in-place boundary."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ehparse --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var flags *CallerFlags
	switch strings.Fields(kongCtx.Command())[0] {
	case "parse":
		flags = &cli.Parse.CallerFlags
	case "batch":
		flags = &cli.Batch.CallerFlags
	}

	if flags != nil {
		level := slog.LevelWarn
		if flags.Verbose {
			level = slog.LevelDebug
		}
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

		caller, err := m.newCaller(ctx, flags, deps.Logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", ehparse.ErrorMessage(err))
			return err
		}
		defer m.Close(ctx)
		deps.Caller = caller

		deps.Validator, err = json.NewValidator()
		if err != nil {
			return fmt.Errorf("failed to compile schemas: %w", err)
		}
		deps.Converter = htmltomarkdown.NewConverter()
	}

	return kongCtx.Run(deps)
}

// newCaller returns a caller backed by a WebAssembly module when flags name
// one, and by the in-process harness otherwise.
func (m *Main) newCaller(ctx context.Context, flags *CallerFlags, logger *slog.Logger) (ehparse.Caller, error) {
	if flags.Wasm != "" {
		if flags.Policy != "" || flags.Tolerant {
			return nil, ehparse.Errorf(ehparse.EINVALID, "--policy and --tolerant apply to in-process parsing only")
		}
		runner, err := wazero.Load(ctx, flags.Wasm, wazero.WithLogger(logger), wazero.WithTimeout(flags.Timeout))
		if err != nil {
			return nil, err
		}
		m.Runner = runner
		return runner, nil
	}

	var policies ehparse.Policies
	if flags.Policy != "" {
		p, err := yaml.Load(flags.Policy)
		if err != nil {
			return nil, err
		}
		policies = p
	}

	var decoderOpts []html.Option
	if flags.Tolerant {
		decoderOpts = append(decoderOpts, html.WithTolerantDecoding())
	}

	var (
		decoder    ehparse.Decoder           = html.NewDecoder(decoderOpts...)
		serializer ehparse.Serializer        = json.NewSerializer()
		registry   ehparse.ExtractorRegistry = ehentai.NewDefaultRegistry(policies)
	)
	if flags.Verbose {
		decoder = ehslog.NewLoggingDecoder(decoder, logger)
		serializer = ehslog.NewLoggingSerializer(serializer, logger)
		registry = ehslog.NewLoggingRegistry(registry, logger)
	}

	harness := marshal.NewHarness(decoder, serializer, marshal.WithLogger(logger))
	exports, err := marshal.NewExports(harness, registry)
	if err != nil {
		return nil, err
	}
	return marshal.NewLocalCaller(exports), nil
}
