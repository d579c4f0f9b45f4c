package vellum

import (
	"github.com/vellumpdf/vellum/core"
	"github.com/vellumpdf/vellum/writer"
)

// Option configures page costing and import.
type Option func(*config)

type config struct {
	existing   map[int]*core.Indirect
	writerOpts []writer.Option
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExisting declares objects already present in the destination, keyed
// by their object number in the source document. PageByteCost bills them
// nothing; ImportPage reuses the given destination handles instead of
// copying them again.
func WithExisting(existing map[int]*core.Indirect) Option {
	return func(cfg *config) {
		cfg.existing = existing
	}
}

// WithCompression enables flate compression of unfiltered stream payloads
// when measuring and writing (compress/flate level semantics, -1 for
// default).
func WithCompression(level int) Option {
	return func(cfg *config) {
		cfg.writerOpts = append(cfg.writerOpts, writer.WithCompression(level))
	}
}
