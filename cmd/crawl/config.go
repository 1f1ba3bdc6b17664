package crawl

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/limiter"
	"github.com/Nrich-sunny/merchantpoint/log"
	"github.com/Nrich-sunny/merchantpoint/parse/merchantpoint"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

const DefaultConfigPath = "config.toml"

type Config struct {
	LogLevel  string
	LogFormat string // json 或 console
	LogFile   string
	LogRotate log.RotateConfig
	Fetcher   FetcherConfig
	Cache     CacheConfig
	Throttle  ThrottleConfig
	Engine    EngineConfig
	Output    OutputConfig
	Tasks     []collect.TaskConfig
}

type FetcherConfig struct {
	Timeout        int // 毫秒
	UserAgent      string
	Proxy          []string
	RetryTimes     int
	RetryHTTPCodes []int
	ObeyRobots     bool
}

type CacheConfig struct {
	Enabled    bool
	Dir        string
	Expiration int // 秒, 0 表示永不过期
}

// ThrottleConfig 中的时间单位均为毫秒
type ThrottleConfig struct {
	DownloadDelay     int
	Randomize         bool
	AutoThrottle      bool
	StartDelay        int
	MaxDelay          int
	TargetConcurrency float64
}

func (c ThrottleConfig) limiterConfig() limiter.ThrottleConfig {
	return limiter.ThrottleConfig{
		DownloadDelay:     time.Duration(c.DownloadDelay) * time.Millisecond,
		Randomize:         c.Randomize,
		AutoThrottle:      c.AutoThrottle,
		StartDelay:        time.Duration(c.StartDelay) * time.Millisecond,
		MaxDelay:          time.Duration(c.MaxDelay) * time.Millisecond,
		TargetConcurrency: c.TargetConcurrency,
	}
}

type EngineConfig struct {
	WorkCount int
}

type OutputConfig struct {
	File       string
	Format     string // csv 或 xlsx
	BatchCount int
}

func DefaultConfig() Config {
	return Config{
		LogLevel:  "INFO",
		LogFormat: string(log.FormatJSON),
		LogRotate: log.DefaultRotateConfig,
		Fetcher: FetcherConfig{
			Timeout:        30000,
			UserAgent:      "MerchantSpider/1.0",
			RetryTimes:     3,
			RetryHTTPCodes: append([]int(nil), collect.DefaultRetryHTTPCodes...),
			ObeyRobots:     true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Dir:        ".httpcache",
			Expiration: 3600,
		},
		Throttle: ThrottleConfig{
			DownloadDelay:     2000,
			Randomize:         true,
			AutoThrottle:      true,
			StartDelay:        1000,
			MaxDelay:          10000,
			TargetConcurrency: 1.0,
		},
		Engine: EngineConfig{WorkCount: 1},
		Output: OutputConfig{
			File:       "merchants_data.csv",
			Format:     "csv",
			BatchCount: 100,
		},
		Tasks: []collect.TaskConfig{
			{
				Name:     merchantpoint.TaskName,
				URL:      merchantpoint.DefaultURL,
				MaxItems: merchantpoint.DefaultMaxItems,
				Fetcher:  "browser",
			},
		},
	}
}

// LoadConfig reads a TOML file over DefaultConfig. A missing file is not an
// error unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	c := DefaultConfig()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return c, nil
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, err
	}
	defer cfg.Close()

	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return c, err
	}

	// 未配置任务时沿用默认任务
	defaultTasks := c.Tasks
	c.Tasks = nil
	if err := cfg.Scan(&c); err != nil {
		return c, err
	}
	if len(c.Tasks) == 0 {
		c.Tasks = defaultTasks
	}
	c.LogLevel = cfg.Get("logLevel").String(c.LogLevel)
	return c, nil
}
