package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"blogapi/internal/config"
	"blogapi/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
}

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBDriver:                 "postgres",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)

	cfg.DBDriver = "sqlite"
	require.NoError(t, configurePool(db, cfg))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "postgres", DBHost: "db", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "sqlite", DBPath: "blog.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestConnect_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		Env:      "test",
		DBDriver: "sqlite",
		DBPath:   memoryDSN(),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, table := range []string{"users", "posts", "comments", "tags", "post_tags"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
	assert.False(t, db.Migrator().HasColumn(&models.Post{}, "comment_count"))
	assert.False(t, db.Migrator().HasColumn(&models.User{}, "post_count"))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres fk violation", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite unique", errors.New("UNIQUE constraint failed: posts.slug"), true},
		{"record not found", gorm.ErrRecordNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUniqueViolation(tt.err))
		})
	}
}

func TestUniqueIndexTranslatedOnSQLite(t *testing.T) {
	db, err := Open(sqlite.Open(memoryDSN()), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.User{Email: "a@blog.com", Username: "a", Role: models.RoleUser}).Error)
	err = db.Create(&models.User{Email: "a@blog.com", Username: "b", Role: models.RoleUser}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestCustomGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewJSONHandler(&buf, nil)), logger.Warn)
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), query, nil)
	assert.Empty(t, buf.String(), "fast successful queries are not logged at Warn")

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), "GORM slow query")
	buf.Reset()

	l.Trace(ctx, time.Now(), query, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "GORM query error")
	buf.Reset()

	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now(), query, gorm.ErrDuplicatedKey)
	assert.Contains(t, buf.String(), "GORM unique violation")
	buf.Reset()

	l.LogMode(logger.Silent).Trace(ctx, time.Now(), query, errors.New("ignored"))
	assert.Empty(t, buf.String())
}
