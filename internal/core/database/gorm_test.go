package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewGorm_SQLiteLifecycle(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)

	require.NoError(t, Ping(context.Background(), db))
	require.NoError(t, Close(db))
	assert.Error(t, Ping(context.Background(), db))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "mongodb"})

	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		in, user, pass string
		want           string
	}{
		{"root:pw@tcp(localhost:3306)/homehunt", "", "", "root:pw@tcp(localhost:3306)/homehunt"},
		{
			"mysql://root:pw@localhost:3306/homehunt?useSSL=false&serverTimezone=UTC", "", "",
			"root:pw@tcp(localhost:3306)/homehunt?charset=utf8mb4&loc=UTC&parseTime=true&tls=false",
		},
		{
			"jdbc:mysql://db:3306/homehunt?characterEncoding=utf8&useUnicode=true", "app", "secret",
			"app:secret@tcp(db:3306)/homehunt?charset=utf8&parseTime=true",
		},
		{"mysql://db:3306/homehunt?user=q&password=w", "", "", "q:w@tcp(db:3306)/homehunt?charset=utf8mb4&parseTime=true"},
	}

	for i, tc := range tests {
		assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass), i)
	}
}

func TestMaskDSN(t *testing.T) {
	masked := MaskDSN("postgres://homehunt:topsecret@db:5432/homehunt?sslmode=disable")
	assert.NotContains(t, masked, "topsecret")
	assert.Contains(t, masked, "homehunt:")

	assert.Equal(t, "root:****@tcp(localhost:3306)/db", MaskDSN("root:pw@tcp(localhost:3306)/db"))
	assert.Equal(t, "file::memory:", MaskDSN("file::memory:"))
}

func TestNewGorm_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, LogLevel: "info", Log: zap.New(core)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec("SELECT 1").Error)
	assert.Error(t, db.Exec("SELECT * FROM missing_table").Error)

	failed := logs.FilterMessage("sql failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "gorm", failed[0].LoggerName)
	assert.NotEmpty(t, logs.FilterMessage("sql").All())
}

func TestNewGorm_SilentZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, LogLevel: "silent", Log: zap.New(core)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	assert.Zero(t, logs.Len())
}

func TestWithPostgresCreds(t *testing.T) {
	tests := []struct {
		name, dsn, user, pass, want string
	}{
		{"no overrides", "host=db dbname=homehunt", "", "", "host=db dbname=homehunt"},
		{"keyword form", "host=db dbname=homehunt", "app", "s3cret", "host=db dbname=homehunt user=app password=s3cret"},
		{"keyword quoting", "host=db", "app", "it's a pw", `host=db user=app password='it\'s a pw'`},
		{"url keeps password", "postgres://old:pw@db:5432/homehunt?sslmode=disable", "app", "", "postgres://app:pw@db:5432/homehunt?sslmode=disable"},
		{"url replaces both", "postgresql://db/homehunt", "app", "s3cret", "postgresql://app:s3cret@db/homehunt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, withPostgresCreds(tc.dsn, tc.user, tc.pass))
		})
	}
}
