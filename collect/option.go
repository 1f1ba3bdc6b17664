package collect

import (
	"github.com/Nrich-sunny/merchantpoint/collector"
	"github.com/Nrich-sunny/merchantpoint/limiter"
	"go.uber.org/zap"
)

type Options struct {
	Property
	Fetcher Fetcher
	Storage collector.Store
	Logger  *zap.Logger
	Limit   limiter.RateLimiter
}

var defaultOptions = Options{
	Logger: zap.NewNop(),
}

type Option func(opts *Options)

func WithName(name string) Option {
	return func(opts *Options) {
		opts.Name = name
	}
}

func WithURL(url string) Option {
	return func(opts *Options) {
		opts.URL = url
	}
}

func WithCookie(cookie string) Option {
	return func(opts *Options) {
		opts.Cookie = cookie
	}
}

func WithReload(reload bool) Option {
	return func(opts *Options) {
		opts.Reload = reload
	}
}

func WithMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

func WithFetcher(f Fetcher) Option {
	return func(opts *Options) {
		opts.Fetcher = f
	}
}

func WithStorage(s collector.Store) Option {
	return func(opts *Options) {
		opts.Storage = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithLimit(l limiter.RateLimiter) Option {
	return func(opts *Options) {
		opts.Limit = l
	}
}
