package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// zapGorm 把 gorm 的 SQL 日志写进 zap
type zapGorm struct {
	l     *zap.Logger
	level logger.LogLevel
}

func NewZapLogger(l *zap.Logger, level logger.LogLevel) logger.Interface {
	return &zapGorm{l: l.Named("gorm").WithOptions(zap.AddCallerSkip(3)), level: level}
}

func (z *zapGorm) LogMode(level logger.LogLevel) logger.Interface {
	cp := *z
	cp.level = level
	return &cp
}

func (z *zapGorm) Info(_ context.Context, msg string, args ...any) {
	if z.level >= logger.Info {
		z.l.Info(fmt.Sprintf(msg, args...))
	}
}

func (z *zapGorm) Warn(_ context.Context, msg string, args ...any) {
	if z.level >= logger.Warn {
		z.l.Warn(fmt.Sprintf(msg, args...))
	}
}

func (z *zapGorm) Error(_ context.Context, msg string, args ...any) {
	if z.level >= logger.Error {
		z.l.Error(fmt.Sprintf(msg, args...))
	}
}

func (z *zapGorm) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && z.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		z.l.Error("sql failed", zap.Error(err), zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case elapsed > slowQuery && z.level >= logger.Warn:
		sql, rows := fc()
		z.l.Warn("slow sql", zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case z.level >= logger.Info:
		sql, rows := fc()
		z.l.Info("sql", zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}
