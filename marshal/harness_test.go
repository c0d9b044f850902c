package marshal_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/html"
	"github.com/ehviewer/ehparse/json"
	"github.com/ehviewer/ehparse/marshal"
	"github.com/ehviewer/ehparse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(opts ...marshal.Option) *marshal.Harness {
	return marshal.NewHarness(html.NewDecoder(), json.NewSerializer(), opts...)
}

// load returns a host buffer of the given capacity holding input.
func load(input string, capacity int) ([]byte, int32, int32) {
	mem := make([]byte, capacity)
	copy(mem, input)
	return mem, int32(len(input)), int32(capacity)
}

func limitsExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(doc *ehparse.Document) (any, error) {
			return &ehparse.Limits{Current: 5, Maximum: 100, ResetCost: 10}, nil
		},
	}
}

func TestHarness_Call(t *testing.T) {
	t.Parallel()

	t.Run("writes the serialized result and returns its length", func(t *testing.T) {
		t.Parallel()

		mem, length, capacity := load(`<div class="homebox"></div>`, 256)
		status := newHarness().Call(mem, length, capacity, limitsExtractor())

		want, err := json.Marshal(&ehparse.Limits{Current: 5, Maximum: 100, ResetCost: 10})
		require.NoError(t, err)
		require.True(t, status.OK())
		assert.Equal(t, ehparse.Status(len(want)), status)
		assert.Equal(t, want, mem[:status])
	})

	t.Run("returns the result length when it fits and too large otherwise", func(t *testing.T) {
		t.Parallel()

		input := "<p>x</p>"
		want, err := json.Marshal(&ehparse.Limits{Current: 5, Maximum: 100, ResetCost: 10})
		require.NoError(t, err)

		for capacity := len(input); capacity <= len(want)+8; capacity++ {
			mem, length, c := load(input, capacity)
			status := newHarness().Call(mem, length, c, limitsExtractor())

			if len(want) <= capacity {
				require.Equal(t, ehparse.Status(len(want)), status, "capacity %d", capacity)
				require.Equal(t, want, mem[:status], "capacity %d", capacity)
			} else {
				require.Equal(t, ehparse.StatusTooLarge, status, "capacity %d", capacity)
			}
		}
	})

	t.Run("too large leaves the input bytes untouched", func(t *testing.T) {
		t.Parallel()

		input := "<p>x</p>"
		mem, length, capacity := load(input, len(input))
		status := newHarness().Call(mem, length, capacity, limitsExtractor())

		assert.Equal(t, ehparse.StatusTooLarge, status)
		assert.Equal(t, input, string(mem))
	})

	t.Run("zero capacity with empty input", func(t *testing.T) {
		t.Parallel()

		status := newHarness().Call(nil, 0, 0, limitsExtractor())

		assert.Equal(t, ehparse.StatusTooLarge, status)
	})

	t.Run("returns not applicable when the extractor finds no match", func(t *testing.T) {
		t.Parallel()

		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				return nil, ehparse.Errorf(ehparse.ENOTAPPLICABLE, "no homebox")
			},
		}
		mem, length, capacity := load("<p>x</p>", 256)

		assert.Equal(t, ehparse.StatusNotApplicable, newHarness().Call(mem, length, capacity, ex))
	})

	t.Run("domain errors are faults", func(t *testing.T) {
		t.Parallel()

		for _, err := range []error{
			ehparse.Errorf(ehparse.EAUTH, "log on required"),
			ehparse.Errorf(ehparse.EMALFORMED, "bad count"),
			ehparse.Errorf(ehparse.ETOOLARGE, "extractor has no business reporting this"),
			errors.New("plain error"),
		} {
			ex := &mock.Extractor{
				ExtractFn: func(doc *ehparse.Document) (any, error) {
					return nil, err
				},
			}
			mem, length, capacity := load("<p>x</p>", 256)

			assert.Equal(t, ehparse.StatusFault, newHarness().Call(mem, length, capacity, ex), err.Error())
		}
	})

	t.Run("undecodable input is a fault and skips extraction", func(t *testing.T) {
		t.Parallel()

		called := false
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				called = true
				return nil, nil
			},
		}
		mem := []byte{'<', 'p', '>', 0xff, 0xfe, 0, 0, 0}

		status := newHarness().Call(mem, 5, int32(len(mem)), ex)

		assert.Equal(t, ehparse.StatusFault, status)
		assert.False(t, called)
	})

	t.Run("contains a panicking extractor", func(t *testing.T) {
		t.Parallel()

		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				if strings.Contains(doc.Text, "This page requires you to log on.") {
					panic("Not logged in!")
				}
				return nil, nil
			},
		}
		mem, length, capacity := load("<p>This page requires you to log on.</p>", 256)

		assert.Equal(t, ehparse.StatusFault, newHarness().Call(mem, length, capacity, ex))
	})

	t.Run("contains runtime errors raised by the extractor", func(t *testing.T) {
		t.Parallel()

		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				var counts []int32
				return counts[2], nil
			},
		}
		mem, length, capacity := load("<p>x</p>", 256)

		assert.Equal(t, ehparse.StatusFault, newHarness().Call(mem, length, capacity, ex))
	})

	t.Run("contains a panicking decoder", func(t *testing.T) {
		t.Parallel()

		dec := &mock.Decoder{
			DecodeFn: func(input []byte) (*ehparse.Document, error) {
				panic("tokenizer exploded")
			},
		}
		h := marshal.NewHarness(dec, json.NewSerializer())
		mem, length, capacity := load("<p>x</p>", 256)

		assert.Equal(t, ehparse.StatusFault, h.Call(mem, length, capacity, limitsExtractor()))
	})

	t.Run("contains a panicking serializer", func(t *testing.T) {
		t.Parallel()

		ser := &mock.Serializer{
			SerializeFn: func(v any, dst []byte) (int, error) {
				panic("encoder exploded")
			},
		}
		h := marshal.NewHarness(html.NewDecoder(), ser)
		mem, length, capacity := load("<p>x</p>", 256)

		assert.Equal(t, ehparse.StatusFault, h.Call(mem, length, capacity, limitsExtractor()))
	})

	t.Run("serializer overreporting its byte count is a fault", func(t *testing.T) {
		t.Parallel()

		ser := &mock.Serializer{
			SerializeFn: func(v any, dst []byte) (int, error) {
				return len(dst) + 1, nil
			},
		}
		h := marshal.NewHarness(html.NewDecoder(), ser)
		mem, length, capacity := load("<p>x</p>", 64)

		assert.Equal(t, ehparse.StatusFault, h.Call(mem, length, capacity, limitsExtractor()))
	})

	t.Run("serializer failures other than too large are faults", func(t *testing.T) {
		t.Parallel()

		ser := &mock.Serializer{
			SerializeFn: func(v any, dst []byte) (int, error) {
				return 0, ehparse.Errorf(ehparse.EINTERNAL, "cannot encode")
			},
		}
		h := marshal.NewHarness(html.NewDecoder(), ser)
		mem, length, capacity := load("<p>x</p>", 64)

		assert.Equal(t, ehparse.StatusFault, h.Call(mem, length, capacity, limitsExtractor()))
	})

	t.Run("rejects out of range lengths and capacities", func(t *testing.T) {
		t.Parallel()

		mem := make([]byte, 16)
		for _, tc := range []struct {
			name             string
			length, capacity int32
		}{
			{"length above capacity", 10, 8},
			{"capacity above memory", 4, 17},
			{"negative length", -1, 8},
			{"negative capacity", 0, -1},
		} {
			status := newHarness().Call(mem, tc.length, tc.capacity, limitsExtractor())
			assert.Equal(t, ehparse.StatusFault, status, tc.name)
		}
	})

	t.Run("identical calls yield identical results", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		a, la, ca := load(`<div class="homebox"><strong>1</strong></div>`, 128)
		b, lb, cb := load(`<div class="homebox"><strong>1</strong></div>`, 128)

		sa := h.Call(a, la, ca, limitsExtractor())
		sb := h.Call(b, lb, cb, limitsExtractor())

		assert.Equal(t, sa, sb)
		assert.Equal(t, a, b)
	})

	t.Run("serves concurrent calls on distinct buffers", func(t *testing.T) {
		t.Parallel()

		h := newHarness()
		want, err := json.Marshal(&ehparse.Limits{Current: 5, Maximum: 100, ResetCost: 10})
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([][]byte, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				mem, length, capacity := load("<p>x</p>", 128)
				status := h.Call(mem, length, capacity, limitsExtractor())
				if status.OK() {
					results[i] = mem[:status]
				}
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			assert.Equal(t, want, r)
		}
	})
}

func TestHarness_Ordering(t *testing.T) {
	t.Parallel()

	t.Run("phases run in order on success", func(t *testing.T) {
		t.Parallel()

		var phases []ehparse.Phase
		h := newHarness(marshal.WithPhaseHook(func(p ehparse.Phase) {
			phases = append(phases, p)
		}))
		mem, length, capacity := load("<p>x</p>", 128)

		status := h.Call(mem, length, capacity, limitsExtractor())

		require.True(t, status.OK())
		assert.Equal(t, []ehparse.Phase{
			ehparse.PhaseDecoding,
			ehparse.PhaseExtracting,
			ehparse.PhaseSerializing,
			ehparse.PhaseDone,
		}, phases)
	})

	t.Run("failure ends in the failed phase", func(t *testing.T) {
		t.Parallel()

		var phases []ehparse.Phase
		h := newHarness(marshal.WithPhaseHook(func(p ehparse.Phase) {
			phases = append(phases, p)
		}))
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				return nil, ehparse.Errorf(ehparse.ENOTAPPLICABLE, "no match")
			},
		}
		mem, length, capacity := load("<p>x</p>", 128)

		h.Call(mem, length, capacity, ex)

		assert.Equal(t, []ehparse.Phase{
			ehparse.PhaseDecoding,
			ehparse.PhaseExtracting,
			ehparse.PhaseFailed,
		}, phases)
	})

	t.Run("panic ends in the failed phase", func(t *testing.T) {
		t.Parallel()

		var phases []ehparse.Phase
		h := newHarness(marshal.WithPhaseHook(func(p ehparse.Phase) {
			phases = append(phases, p)
		}))
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				panic("boom")
			},
		}
		mem, length, capacity := load("<p>x</p>", 128)

		h.Call(mem, length, capacity, ex)

		require.NotEmpty(t, phases)
		assert.Equal(t, ehparse.PhaseFailed, phases[len(phases)-1])
	})

	t.Run("no output byte is written before extraction completes", func(t *testing.T) {
		t.Parallel()

		input := `<div class="homebox"><strong>5</strong></div>`
		mem, length, capacity := load(input, 256)
		snapshot := bytes.Clone(mem)

		extracted := false
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				// The host buffer still holds exactly the input.
				assert.Equal(t, snapshot, mem)
				extracted = true
				return &ehparse.Limits{Current: 5}, nil
			},
		}
		ser := &mock.Serializer{
			SerializeFn: func(v any, dst []byte) (int, error) {
				assert.True(t, extracted, "serializer ran before extraction completed")
				return json.NewSerializer().Serialize(v, dst)
			},
		}
		h := marshal.NewHarness(html.NewDecoder(), ser)

		status := h.Call(mem, length, capacity, ex)

		require.True(t, status.OK())
		assert.True(t, extracted)
	})

	t.Run("the document outlives the overwritten input", func(t *testing.T) {
		t.Parallel()

		var doc *ehparse.Document
		ex := &mock.Extractor{
			ExtractFn: func(d *ehparse.Document) (any, error) {
				doc = d
				return &ehparse.Limits{Current: 5, Maximum: 100, ResetCost: 10}, nil
			},
		}
		input := `<div class="homebox">quota</div>`
		mem, length, capacity := load(input, 256)

		status := newHarness().Call(mem, length, capacity, ex)

		require.True(t, status.OK())
		require.NotEqual(t, input, string(mem[:length]))
		assert.Equal(t, input, doc.Text)
	})

	t.Run("a panicking phase hook is contained", func(t *testing.T) {
		t.Parallel()

		h := newHarness(marshal.WithPhaseHook(func(p ehparse.Phase) {
			if p == ehparse.PhaseSerializing {
				panic("hook")
			}
		}))
		mem, length, capacity := load("<p>x</p>", 128)

		assert.Equal(t, ehparse.StatusFault, h.Call(mem, length, capacity, limitsExtractor()))
	})
}

func TestHarness_Logging(t *testing.T) {
	t.Parallel()

	t.Run("logs faults with their code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				return nil, ehparse.Errorf(ehparse.EAUTH, "log on required")
			},
		}
		mem, length, capacity := load("<p>x</p>", 128)

		newHarness(marshal.WithLogger(logger)).Call(mem, length, capacity, ex)

		output := buf.String()
		assert.Contains(t, output, "boundary call fault")
		assert.Contains(t, output, "code=auth_required")
	})

	t.Run("logs recovered panics", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				panic("Not logged in!")
			},
		}
		mem, length, capacity := load("<p>x</p>", 128)

		newHarness(marshal.WithLogger(logger)).Call(mem, length, capacity, ex)

		assert.Contains(t, buf.String(), "Not logged in!")
	})

	t.Run("rate limits fault records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		h := newHarness(marshal.WithLogger(logger), marshal.WithFaultLogLimit(0, 1))
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				return nil, ehparse.Errorf(ehparse.EMALFORMED, "bad")
			},
		}

		for range 3 {
			mem, length, capacity := load("<p>x</p>", 128)
			h.Call(mem, length, capacity, ex)
		}

		assert.Equal(t, 1, strings.Count(buf.String(), "boundary call fault"))
	})

	t.Run("does not log not applicable at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ex := &mock.Extractor{
			ExtractFn: func(doc *ehparse.Document) (any, error) {
				return nil, ehparse.Errorf(ehparse.ENOTAPPLICABLE, "no match")
			},
		}
		mem, length, capacity := load("<p>x</p>", 128)

		newHarness(marshal.WithLogger(logger)).Call(mem, length, capacity, ex)

		assert.Empty(t, buf.String())
	})
}

func TestHarness_Export(t *testing.T) {
	t.Parallel()

	entry := newHarness().Export(limitsExtractor())
	mem, length, capacity := load("<p>x</p>", 128)

	n := entry(mem, length, capacity)

	require.Positive(t, n)
	assert.Equal(t, `{"current":5,"maximum":100,"resetCost":10}`, string(mem[:n]))
}
