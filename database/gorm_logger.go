package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// zerologGormLogger forwards GORM's SQL tracing to the global zerolog logger.
type zerologGormLogger struct {
	slowThreshold time.Duration
	level         gormLogger.LogLevel
}

func NewGormLogger(slowThreshold time.Duration) gormLogger.Interface {
	return &zerologGormLogger{slowThreshold: slowThreshold, level: gormLogger.Warn}
}

func (l *zerologGormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *zerologGormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormLogger.Info {
		log.Info().Msgf(msg, args...)
	}
}

func (l *zerologGormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormLogger.Warn {
		log.Warn().Msgf(msg, args...)
	}
}

func (l *zerologGormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormLogger.Error {
		log.Error().Msgf(msg, args...)
	}
}

func (l *zerologGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var event *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormLogger.Error:
		event = log.Error().Err(err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormLogger.Warn:
		event = log.Warn().Bool("slow", true)
	case l.level >= gormLogger.Info:
		event = log.Debug()
	default:
		return
	}

	sql, rows := fc()
	event.Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm_query")
}
