package engine

import (
	"github.com/Nrich-sunny/merchantpoint/collect"
	"go.uber.org/zap"
)

type Option func(opts *Options)

// Options configures a Crawler. Tasks in Seeds may carry their own Fetcher;
// the engine-level Fetcher is used for tasks that do not.
type Options struct {
	WorkCount int
	Fetcher   collect.Fetcher
	Logger    *zap.Logger
	Seeds     []*collect.Task
	Scheduler Scheduler
}

var defaultOptions = Options{
	WorkCount: 1,
	Logger:    zap.NewNop(),
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithFetcher(fetcher collect.Fetcher) Option {
	return func(opts *Options) {
		opts.Fetcher = fetcher
	}
}

// WithWorkCount sets the number of fetch workers. Values below 1 run one.
func WithWorkCount(n int) Option {
	return func(opts *Options) {
		opts.WorkCount = n
	}
}

func WithSeeds(tasks []*collect.Task) Option {
	return func(opts *Options) {
		opts.Seeds = tasks
	}
}

func WithScheduler(s Scheduler) Option {
	return func(opts *Options) {
		opts.Scheduler = s
	}
}
