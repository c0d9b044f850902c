// Package wazero runs the WebAssembly build of the parser under a wazero
// runtime, giving Go hosts the same marshal-in-place entry points a native
// host gets from the shared library.
package wazero

//go:generate env GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o testdata/ehparse.wasm ../cmd/ehparse-wasm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/marshal"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const (
	// MaxWasmFileSize is the largest module Load accepts.
	MaxWasmFileSize = 64 * 1024 * 1024

	// ABIVersion is the guest ABI this runner speaks.
	ABIVersion = 1

	// DefaultTimeout bounds a single call, including module instantiation.
	DefaultTimeout = 5 * time.Second
)

// Ensure Runner implements ehparse.Caller at compile time.
var _ ehparse.Caller = (*Runner)(nil)

// Runner calls parser entry points inside a compiled module. Every call gets a
// fresh module instance, so a Runner is safe for concurrent use. Close waits
// for calls in flight.
type Runner struct {
	mu       sync.RWMutex // guards runtime and compiled
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	logger   *slog.Logger
	timeout  time.Duration
	counter  atomic.Uint64
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger logs module lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// Load reads and compiles the module at path.
func Load(ctx context.Context, path string, opts ...Option) (*Runner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to open wasm module: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to stat wasm module: %v", err)
	}
	if !info.Mode().IsRegular() {
		return nil, ehparse.Errorf(ehparse.EINVALID, "wasm module must be a regular file")
	}
	if info.Size() > MaxWasmFileSize {
		return nil, ehparse.Errorf(ehparse.EINVALID, "wasm module too large: %d bytes (max %d)", info.Size(), MaxWasmFileSize)
	}

	wasm, err := io.ReadAll(io.LimitReader(f, MaxWasmFileSize+1))
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to read wasm module: %v", err)
	}
	if len(wasm) > MaxWasmFileSize {
		return nil, ehparse.Errorf(ehparse.EINVALID, "wasm module too large: %d bytes (max %d)", len(wasm), MaxWasmFileSize)
	}
	return LoadBytes(ctx, wasm, opts...)
}

// LoadBytes compiles a module and checks that it exports the parser ABI.
func LoadBytes(ctx context.Context, wasm []byte, opts ...Option) (*Runner, error) {
	r := &Runner{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.runtime = wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.runtime); err != nil {
		_ = r.runtime.Close(context.Background())
		return nil, ehparse.Errorf(ehparse.EINTERNAL, "failed to instantiate WASI: %v", err)
	}

	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		_ = r.runtime.Close(context.Background())
		return nil, ehparse.Errorf(ehparse.EINVALID, "failed to compile wasm module: %v", err)
	}
	r.compiled = compiled

	if err := r.validate(ctx); err != nil {
		_ = r.Close(context.Background())
		return nil, err
	}
	r.logger.Debug("wasm module loaded", "exports", len(compiled.ExportedFunctions()))
	return r, nil
}

// validate checks the required exports and the guest's ABI version.
func (r *Runner) validate(ctx context.Context) error {
	exported := r.compiled.ExportedFunctions()
	required := []string{"abi_version", "alloc", "free"}
	for name := range marshal.ExportNames {
		required = append(required, name)
	}
	sort.Strings(required)
	for _, name := range required {
		if _, ok := exported[name]; !ok {
			return ehparse.Errorf(ehparse.EINVALID, "wasm module does not export %s", name)
		}
	}

	mod, err := r.instantiate(ctx)
	if err != nil {
		return err
	}
	defer mod.Close(context.Background())

	results, err := mod.ExportedFunction("abi_version").Call(ctx)
	if err != nil {
		return ehparse.Errorf(ehparse.EINTERNAL, "abi_version call failed: %v", err)
	}
	if len(results) == 0 || api.DecodeU32(results[0]) != ABIVersion {
		return ehparse.Errorf(ehparse.EINVALID, "wasm module ABI version mismatch (want %d)", ABIVersion)
	}
	return nil
}

func (r *Runner) instantiate(ctx context.Context) (api.Module, error) {
	config := wazero.NewModuleConfig().
		WithName(fmt.Sprintf("ehparse-%d", r.counter.Add(1))).
		WithStartFunctions("_initialize")
	mod, err := r.runtime.InstantiateModule(ctx, r.compiled, config)
	if err != nil {
		return nil, ehparse.Errorf(ehparse.EINTERNAL, "failed to instantiate wasm module: %v", err)
	}
	return mod, nil
}

// Call copies input into a guest buffer of the given capacity, invokes the
// named entry point and returns its status together with a copy of the
// result bytes when the status is a length.
func (r *Runner) Call(ctx context.Context, name string, input []byte, capacity int) (ehparse.Status, []byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.compiled == nil {
		return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINTERNAL, "runner is closed")
	}
	if _, ok := marshal.ExportNames[name]; !ok {
		return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINVALID, "unknown entry point %q", name)
	}
	if capacity < len(input) || capacity > 1<<31-1 {
		return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINVALID, "capacity %d cannot hold %d input bytes", capacity, len(input))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	mod, err := r.instantiate(ctx)
	if err != nil {
		return ehparse.StatusFault, nil, err
	}
	defer mod.Close(context.Background())

	results, err := mod.ExportedFunction("alloc").Call(ctx, api.EncodeU32(uint32(capacity)))
	if err != nil {
		return ehparse.StatusFault, nil, r.callError(ctx, "alloc", err)
	}
	ptr := api.DecodeU32(results[0])
	if !mod.Memory().Write(ptr, input) {
		return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINTERNAL, "failed to write input to wasm memory")
	}

	results, err = mod.ExportedFunction(name).Call(ctx, api.EncodeU32(ptr), api.EncodeU32(uint32(len(input))), api.EncodeU32(uint32(capacity)))
	if err != nil {
		return ehparse.StatusFault, nil, r.callError(ctx, name, err)
	}
	status := ehparse.Status(api.DecodeI32(results[0]))
	if !status.Valid() || int(status) > capacity {
		return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINTERNAL, "%s returned undocumented status %d", name, int32(status))
	}

	var out []byte
	if status.OK() {
		view, ok := mod.Memory().Read(ptr, uint32(status))
		if !ok {
			return ehparse.StatusFault, nil, ehparse.Errorf(ehparse.EINTERNAL, "failed to read result from wasm memory")
		}
		// Read returns a view into guest memory.
		out = make([]byte, len(view))
		copy(out, view)
	}
	_, _ = mod.ExportedFunction("free").Call(ctx, api.EncodeU32(ptr))
	return status, out, nil
}

func (r *Runner) callError(ctx context.Context, fn string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ehparse.Errorf(ehparse.EINTERNAL, "%s timed out after %s", fn, r.timeout)
	}
	r.logger.Warn("wasm call failed", "fn", fn, "err", err)
	return ehparse.Errorf(ehparse.EINTERNAL, "%s call failed: %v", fn, err)
}

// Close releases the compiled module and the runtime. Safe to call more than once.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	if r.compiled != nil {
		if err := r.compiled.Close(ctx); err != nil {
			firstErr = err
		}
		r.compiled = nil
	}
	if r.runtime != nil {
		if err := r.runtime.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		r.runtime = nil
	}
	return firstErr
}
