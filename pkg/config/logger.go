package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ConsoleLoggerConfig struct {
	Level string `yaml:"level" validate:"required,oneof=none debug normal"`
}

type FileLoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination" validate:"required_unless=Level none"`
	MaxSize     int    `yaml:"max_size" validate:"gte=0"`
	MaxBackups  int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge      int    `yaml:"max_age" validate:"gte=0"`
	Compress    bool   `yaml:"compress"`
}

type LoggingConfig struct {
	ConsoleLogger ConsoleLoggerConfig `yaml:"console"`
	FileLogger    FileLoggerConfig    `yaml:"file"`
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

func consoleEncoderConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return ec
}

// Prepare builds the program logger: info and warnings go to stdout, errors to
// stderr, and everything at the file level to a rotated log file. The returned
// function flushes and closes the file.
func (conf *LoggingConfig) Prepare() (*zap.Logger, func() error, error) {
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	var consoleCoreHP, consoleCoreLP zapcore.Core
	lowest := zapcore.InfoLevel
	switch conf.ConsoleLogger.Level {
	case "debug":
		lowest = zapcore.DebugLevel
		fallthrough
	case "normal":
		consoleCoreLP = zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stdout)), zapcore.Lock(os.Stdout),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lowest <= lvl && lvl < zapcore.ErrorLevel
			}))
		consoleCoreHP = zapcore.NewCore(newEncoder(consoleEncoderConfig(os.Stderr)), zapcore.Lock(os.Stderr), highPriority)
	default:
		consoleCoreLP = zapcore.NewNopCore()
		consoleCoreHP = zapcore.NewNopCore()
	}

	fileCore := zapcore.NewNopCore()
	closer := func() error { return nil }
	var (
		level        zapcore.Level
		logRequested = true
	)
	switch conf.FileLogger.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "normal":
		level = zapcore.InfoLevel
	default:
		logRequested = false
	}
	if logRequested {
		if err := os.MkdirAll(filepath.Dir(conf.FileLogger.Destination), 0o755); err != nil {
			return nil, nil, fmt.Errorf("unable to access file log destination (%s): %w", conf.FileLogger.Destination, err)
		}
		out := &lumberjack.Logger{
			Filename:   conf.FileLogger.Destination,
			MaxSize:    conf.FileLogger.MaxSize,
			MaxBackups: conf.FileLogger.MaxBackups,
			MaxAge:     conf.FileLogger.MaxAge,
			Compress:   conf.FileLogger.Compress,
		}
		fileCore = zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.AddSync(out), level)
		closer = out.Close
	}

	log := zap.New(zapcore.NewTee(consoleCoreHP, consoleCoreLP, fileCore), zap.AddCaller()).Named("wren")
	return log, func() error {
		// stdout and stderr refuse fsync on some platforms
		_ = log.Sync()
		return closer()
	}, nil
}

// When logging error to console - do not output verbose message.

type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			e := f.Interface.(error)
			f.Interface = errors.New(e.Error())
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
