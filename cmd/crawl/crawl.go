package crawl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/collector"
	"github.com/Nrich-sunny/merchantpoint/collector/csvstorage"
	"github.com/Nrich-sunny/merchantpoint/collector/xlsxstorage"
	"github.com/Nrich-sunny/merchantpoint/engine"
	"github.com/Nrich-sunny/merchantpoint/limiter"
	"github.com/Nrich-sunny/merchantpoint/log"
	"github.com/Nrich-sunny/merchantpoint/parse/merchantpoint"
	"github.com/Nrich-sunny/merchantpoint/proxy"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// Flags 命令行参数，非零值覆盖配置文件
type Flags struct {
	ConfigPath     string
	ConfigRequired bool
	URL            string
	MaxItems       int
	MaxItemsSet    bool
	Output         string
	Format         string
}

func (f Flags) apply(c *Config) {
	if f.Output != "" {
		c.Output.File = f.Output
	}
	if f.Format != "" {
		c.Output.Format = f.Format
	}
	for i := range c.Tasks {
		if c.Tasks[i].Name != merchantpoint.TaskName {
			continue
		}
		if f.URL != "" {
			c.Tasks[i].URL = f.URL
		}
		if f.MaxItemsSet {
			c.Tasks[i].MaxItems = f.MaxItems
		}
	}
}

// Run loads the configuration, crawls until the traversal is exhausted, the
// item limit is hit or ctx is canceled, and closes the output.
func Run(ctx context.Context, flags Flags) error {
	path := flags.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}
	cfg, err := LoadConfig(path, flags.ConfigRequired)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	flags.apply(&cfg)

	// log
	logLevel, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	stdout := log.NewStdoutPlugin(logLevel)
	if log.ParseFormat(cfg.LogFormat) == log.FormatConsole {
		stdout = log.NewConsolePlugin(logLevel)
	}
	plugins := []log.Plugin{stdout}
	if cfg.LogFile != "" {
		plugin, c := log.NewRotatingFilePlugin(cfg.LogFile, cfg.LogRotate, logLevel)
		defer c.Close()
		plugins = append(plugins, plugin)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	runID := node.Generate().String()
	logger := log.NewLogger(plugins...).With(zap.String("run_id", runID))
	defer logger.Sync()
	logger.Info("log init end")

	// set zap global logger
	zap.ReplaceGlobals(logger)

	return run(ctx, logger, cfg)
}

func run(ctx context.Context, logger *zap.Logger, cfg Config) error {
	// proxy
	logger.Sugar().Info("proxy list: ", cfg.Fetcher.Proxy, " timeout: ", cfg.Fetcher.Timeout)
	p, err := proxy.RoundRobinProxySwitcher(cfg.Fetcher.Proxy...)
	if err != nil {
		logger.Error("RoundRobinProxySwitcher failed.", zap.Error(err))
		return err
	}

	// storage
	store, err := NewStore(cfg.Output, logger.Named("storage"))
	if err != nil {
		logger.Error("create storage failed", zap.Error(err))
		return err
	}
	pipeline := collector.NewCleanPipeline(store, logger.Named("pipeline"))

	// fetcher
	timeout := time.Duration(cfg.Fetcher.Timeout) * time.Millisecond
	fetcher := &collect.BrowserFetch{
		Timeout:        timeout,
		UserAgent:      cfg.Fetcher.UserAgent,
		Proxy:          p,
		RetryTimes:     cfg.Fetcher.RetryTimes,
		RetryHTTPCodes: cfg.Fetcher.RetryHTTPCodes,
		Logger:         logger.Named("fetcher"),
	}
	if cfg.Fetcher.ObeyRobots {
		fetcher.Robots = collect.NewRobots(cfg.Fetcher.UserAgent, &http.Client{Timeout: timeout})
	}
	if cfg.Cache.Enabled {
		fetcher.Cache = collect.NewHTTPCache(cfg.Cache.Dir, time.Duration(cfg.Cache.Expiration)*time.Second)
	}

	// init tasks
	seeds, states := ParseTaskConfig(logger, fetcher, pipeline, cfg)
	if len(seeds) == 0 {
		pipeline.Close()
		return fmt.Errorf("no runnable task in config")
	}

	crawler := engine.NewEngine(
		engine.WithFetcher(fetcher),
		engine.WithLogger(logger.Named("engine")),
		engine.WithWorkCount(cfg.Engine.WorkCount),
		engine.WithSeeds(seeds),
		engine.WithScheduler(engine.NewSchedule()),
	)

	runErr := crawler.Run(ctx)
	for name, state := range states {
		logger.Info("crawl finished",
			zap.String("task", name),
			zap.Int("items", state.Count()),
			zap.Int("max_items", state.Max()))
	}

	if err := pipeline.Close(); err != nil {
		logger.Error("close storage failed", zap.Error(err))
		return err
	}
	if runErr != nil {
		logger.Warn("crawl interrupted", zap.Error(runErr))
	}
	return runErr
}

// NewStore opens the output selected by cfg.Format.
func NewStore(cfg OutputConfig, logger *zap.Logger) (collector.Store, error) {
	switch strings.ToLower(cfg.Format) {
	case "", "csv":
		return csvstorage.New(
			csvstorage.WithFile(cfg.File),
			csvstorage.WithLogger(logger),
			csvstorage.WithBatchCount(cfg.BatchCount),
		)
	case "xlsx":
		return xlsxstorage.New(cfg.File, logger)
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}

// ParseTaskConfig builds the configured tasks. Each task gets its own item
// counter, returned by task name.
func ParseTaskConfig(logger *zap.Logger, f collect.Fetcher, s collector.Store, cfg Config) ([]*collect.Task, map[string]*merchantpoint.CrawlState) {
	tasks := make([]*collect.Task, 0, len(cfg.Tasks))
	states := make(map[string]*merchantpoint.CrawlState)
	for _, tcfg := range cfg.Tasks {
		if tcfg.Name != merchantpoint.TaskName {
			logger.Error("unknown task", zap.String("name", tcfg.Name))
			continue
		}

		state := merchantpoint.NewCrawlState(tcfg.MaxItems)
		opts := []collect.Option{
			collect.WithReload(tcfg.Reload),
			collect.WithCookie(tcfg.Cookie),
			collect.WithLogger(logger),
			collect.WithStorage(s),
			collect.WithMaxDepth(tcfg.MaxDepth),
		}
		if tcfg.URL != "" {
			opts = append(opts, collect.WithURL(tcfg.URL))
		}
		t := merchantpoint.NewTask(state, opts...)

		var limits []limiter.RateLimiter
		for _, lcfg := range tcfg.Limits {
			if lcfg.EventCount <= 0 || lcfg.EventDur <= 0 {
				continue
			}
			bucket := lcfg.Bucket
			if bucket < 1 {
				bucket = 1
			}
			// speed limiter
			l := rate.NewLimiter(limiter.Per(lcfg.EventCount, time.Duration(lcfg.EventDur)*time.Second), bucket)
			limits = append(limits, l)
		}
		limits = append(limits, limiter.NewThrottle(cfg.Throttle.limiterConfig()))
		t.Limit = limiter.NewMultiLimiter(limits...)

		switch tcfg.Fetcher {
		case "browser", "":
			t.Fetcher = f
		}
		tasks = append(tasks, t)
		states[t.Name] = state
	}
	return tasks, states
}
