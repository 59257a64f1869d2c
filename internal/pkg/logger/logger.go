package logger

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log      *zap.Logger
	onceInit sync.Once
)

// Init builds the process logger once. Later calls keep the first logger.
func Init(level zapcore.Level, meta ...zap.Field) error {
	var buildErr error
	onceInit.Do(func() {
		instance, err := New(level, meta...)
		if err != nil {
			buildErr = errors.Wrap(err, "failed to build logger")
			return
		}
		Log = instance
	})

	if buildErr != nil {
		return buildErr
	}
	if Log == nil {
		return errors.New("logger not initialized")
	}
	return nil
}

// New builds a console logger at the given level.
func New(level zapcore.Level, meta ...zap.Field) (*zap.Logger, error) {
	instance, err := configure(level).Build(zap.AddCaller())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return instance.With(meta...), nil
}

func configure(level zapcore.Level) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoder.EncodeCaller = zapcore.ShortCallerEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder
	encoder.EncodeName = zapcore.FullNameEncoder
	encoder.CallerKey = "caller"
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}
