package log

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 默认的一些配置

// Format 日志编码格式
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console" // 本地调试时更易读
)

func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatConsole)) {
		return FormatConsole
	}
	return FormatJSON
}

func DefaultEncoderConfig() zapcore.EncoderConfig {
	var encoderConfig = zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return encoderConfig
}

// NewEncoder 默认统一用 json
func NewEncoder(format Format) zapcore.Encoder {
	if format == FormatConsole {
		return zapcore.NewConsoleEncoder(DefaultEncoderConfig())
	}
	return zapcore.NewJSONEncoder(DefaultEncoderConfig())
}

func DefaultOption() []zap.Option {
	var stackTraceLevel zap.LevelEnablerFunc = func(level zapcore.Level) bool {
		return level >= zapcore.DPanicLevel // 默认打印调用时的文件与行号，且只有当日志等级在 DPanic 等级之上时，才输出函数的堆栈信息
	}
	return []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(stackTraceLevel),
	}
}

// RotateConfig 日志文件滚动参数，MaxSize 单位 MB，MaxAge 单位天
type RotateConfig struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// DefaultRotateConfig
// 1.不会自动清理backup
// 2.每200mb压缩一次，不按时间rotate
var DefaultRotateConfig = RotateConfig{
	MaxSize:  200,
	Compress: true,
}

func NewLumberjackLogger(filename string, cfg RotateConfig) *lumberjack.Logger {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultRotateConfig.MaxSize
	}
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		LocalTime:  true,
		Compress:   cfg.Compress,
	}
}
