package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Plugin 是一个日志输出端，多个 Plugin 可以组合成一个 Logger
type Plugin = zapcore.Core

// NewLogger 将多个输出端合并为一个 zap.Logger
func NewLogger(plugins ...Plugin) *zap.Logger {
	return zap.New(zapcore.NewTee(plugins...), DefaultOption()...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return NewFormatPlugin(FormatJSON, writer, enabler)
}

func NewFormatPlugin(format Format, writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(NewEncoder(format), writer, enabler)
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

func NewConsolePlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewFormatPlugin(FormatConsole, zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

// NewFilePlugin 输出到滚动文件，调用方负责关闭返回的 io.Closer
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	return NewRotatingFilePlugin(filePath, DefaultRotateConfig, enabler)
}

func NewRotatingFilePlugin(filePath string, cfg RotateConfig, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	writer := NewLumberjackLogger(filePath, cfg)
	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

// NewWriterPlugin writes JSON lines to w.
func NewWriterPlugin(w io.Writer, enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.AddSync(w), enabler)
}
