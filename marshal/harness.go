// Package marshal implements the marshal-in-place boundary call: decode the
// input window of a host buffer, extract a record, and serialize it back into
// the same buffer, reporting the outcome as a single status integer.
package marshal

import (
	"context"
	"log/slog"

	"github.com/ehviewer/ehparse"
	"golang.org/x/time/rate"
)

const (
	// DefaultFaultLogRate is the sustained number of fault log records per second.
	DefaultFaultLogRate = 10

	// DefaultFaultLogBurst is the number of fault log records allowed in a burst.
	DefaultFaultLogBurst = 10
)

// Entrypoint is a boundary call bound to one extractor. It returns the number
// of bytes written into mem, or a negative ehparse sentinel.
type Entrypoint func(mem []byte, length, capacity int32) int32

// Harness runs boundary calls. It keeps no per-call state; the only shared
// state is the fault log limiter, which is goroutine-safe. A Harness may serve
// concurrent calls on distinct buffers.
type Harness struct {
	decoder    ehparse.Decoder
	serializer ehparse.Serializer
	onPhase    func(ehparse.Phase)
	logger     *slog.Logger
	limiter    *rate.Limiter
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger logs call failures. Faults are rate limited.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithPhaseHook calls fn on every state transition of every call.
func WithPhaseHook(fn func(ehparse.Phase)) Option {
	return func(h *Harness) {
		h.onPhase = fn
	}
}

// WithFaultLogLimit sets the rate and burst of fault log records.
func WithFaultLogLimit(r rate.Limit, burst int) Option {
	return func(h *Harness) {
		h.limiter = rate.NewLimiter(r, burst)
	}
}

// NewHarness creates a new Harness.
func NewHarness(decoder ehparse.Decoder, serializer ehparse.Serializer, opts ...Option) *Harness {
	h := &Harness{
		decoder:    decoder,
		serializer: serializer,
		limiter:    rate.NewLimiter(DefaultFaultLogRate, DefaultFaultLogBurst),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Export binds ex to the harness as a boundary entry point.
func (h *Harness) Export(ex ehparse.Extractor) Entrypoint {
	return func(mem []byte, length, capacity int32) int32 {
		return int32(h.Call(mem, length, capacity, ex))
	}
}

// Call decodes mem[:length], extracts a record with ex and serializes it into
// mem[:capacity]. It never panics.
func (h *Harness) Call(mem []byte, length, capacity int32, ex ehparse.Extractor) ehparse.Status {
	return Contain(func() ehparse.Status {
		status, err := h.call(mem, length, capacity, ex)
		if err != nil {
			h.enter(ehparse.PhaseFailed)
			h.logFailure(status, err)
		}
		return status
	}, func(err error) {
		h.enter(ehparse.PhaseFailed)
		h.logFailure(ehparse.StatusFault, err)
	})
}

func (h *Harness) call(mem []byte, length, capacity int32, ex ehparse.Extractor) (ehparse.Status, error) {
	buf, err := ehparse.NewBuffer(mem, int(length), int(capacity))
	if err != nil {
		return ehparse.StatusFault, err
	}

	h.enter(ehparse.PhaseDecoding)
	input, err := buf.Input()
	if err != nil {
		return ehparse.StatusFault, err
	}
	doc, err := h.decoder.Decode(input)
	if err != nil {
		return ehparse.StatusFault, err
	}

	h.enter(ehparse.PhaseExtracting)
	v, err := ex.Extract(doc)
	if err != nil {
		if ehparse.ErrorCode(err) == ehparse.ENOTAPPLICABLE {
			return ehparse.StatusNotApplicable, err
		}
		return ehparse.StatusFault, err
	}

	// The input window is dead from here on: the first output byte may
	// overwrite it.
	h.enter(ehparse.PhaseSerializing)
	out := buf.Output()
	n, err := h.serializer.Serialize(v, out)
	if err != nil {
		if ehparse.ErrorCode(err) == ehparse.ETOOLARGE {
			return ehparse.StatusTooLarge, err
		}
		return ehparse.StatusFault, err
	}
	if n < 0 || n > len(out) {
		return ehparse.StatusFault, ehparse.Errorf(ehparse.EINTERNAL, "serializer reported %d bytes for capacity %d", n, len(out))
	}

	h.enter(ehparse.PhaseDone)
	return ehparse.Status(n), nil
}

func (h *Harness) enter(p ehparse.Phase) {
	if h.onPhase != nil {
		h.onPhase(p)
	}
}

func (h *Harness) logFailure(status ehparse.Status, err error) {
	if h.logger == nil {
		return
	}
	if status != ehparse.StatusFault {
		h.logger.Debug("boundary call failed", "status", status.String(), "code", ehparse.ErrorCode(err), "err", err)
		return
	}
	if !h.limiter.Allow() {
		return
	}
	h.logger.LogAttrs(context.Background(), slog.LevelWarn, "boundary call fault",
		slog.String("code", ehparse.ErrorCode(err)),
		slog.String("err", err.Error()),
	)
}
