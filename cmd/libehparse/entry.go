package main

import (
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/ehentai"
	"github.com/ehviewer/ehparse/html"
	"github.com/ehviewer/ehparse/json"
	"github.com/ehviewer/ehparse/marshal"
	"github.com/ehviewer/ehparse/yaml"
)

// PolicyEnv names a YAML policy file applied to every extractor.
const PolicyEnv = "EHPARSE_POLICY"

var (
	exportsOnce sync.Once
	exports     *marshal.Exports
)

// setup builds the process-wide entry points. A policy file that fails to
// load is logged and ignored.
func setup() *marshal.Exports {
	exportsOnce.Do(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		var policies ehparse.Policies
		if path := os.Getenv(PolicyEnv); path != "" {
			p, err := yaml.Load(path)
			if err != nil {
				logger.Warn("ignoring policy file", "env", PolicyEnv, "err", err)
			} else {
				policies = p
			}
		}

		h := marshal.NewHarness(html.NewDecoder(), json.NewSerializer(), marshal.WithLogger(logger))
		e, err := marshal.NewExports(h, ehentai.NewDefaultRegistry(policies))
		if err != nil {
			panic(err)
		}
		exports = e
	})
	return exports
}

// call runs the named entry point over host memory at ptr. A nil pointer is
// only valid with zero capacity.
func call(name string, ptr unsafe.Pointer, length, capacity int32) int32 {
	return int32(marshal.Contain(func() ehparse.Status {
		if capacity < 0 || (ptr == nil && capacity != 0) {
			return ehparse.StatusFault
		}
		var mem []byte
		if ptr != nil {
			mem = unsafe.Slice((*byte)(ptr), capacity)
		}
		return ehparse.Status(setup().Call(name, mem, length, capacity))
	}, nil))
}
