package csvstorage

import (
	"io"

	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	filename   string
	writer     io.Writer
	batchCount int
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	batchCount: 100,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithFile writes to the named file, truncating it.
func WithFile(filename string) Option {
	return func(opts *options) {
		opts.filename = filename
	}
}

// WithWriter writes to w. It takes precedence over WithFile.
func WithWriter(w io.Writer) Option {
	return func(opts *options) {
		opts.writer = w
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.batchCount = batchCount
	}
}
