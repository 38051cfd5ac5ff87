package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger — логгер, которым пользуются все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	// Zap возвращает исходный *zap.Logger для middleware и сторонних библиотек.
	Zap() *zap.Logger
	Sync() error
}

type zapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewZapLogger создаёт логгер. В режиме разработки вывод человекочитаемый, иначе JSON.
func NewZapLogger(level string, development bool) (Logger, error) {
	var zcfg zap.Config
	if development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "time"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return Wrap(base), nil
}

// Wrap оборачивает готовый *zap.Logger.
func Wrap(base *zap.Logger) Logger {
	return &zapLogger{base: base, sugar: base.Sugar()}
}

// NewNop возвращает логгер, который ничего не пишет. Используется в тестах.
func NewNop() Logger {
	return Wrap(zap.NewNop())
}

func (l *zapLogger) Debugf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Errorf(err error, format string, args ...any) {
	l.sugar.With(zap.Error(err)).Errorf(format, args...)
}

func (l *zapLogger) Zap() *zap.Logger {
	return l.base
}

func (l *zapLogger) Sync() error {
	return l.base.Sync()
}
