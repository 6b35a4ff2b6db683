package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewDatabase_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	require.True(t, db.IsSQLite())
	require.False(t, db.IsPostgres())

	require.NoError(t, db.Session(ctx).Exec(`CREATE TABLE t (id INTEGER)`).Error)
	require.NoError(t, db.Session(ctx).Exec(`INSERT INTO t (id) VALUES (1)`).Error)

	var count int64
	require.NoError(t, db.Session(ctx).Raw(`SELECT COUNT(*) FROM t`).Scan(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(context.Background(), "mysql://localhost/db")
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestDatabase_TranslatesDuplicateKey(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.Session(ctx).Exec(`CREATE TABLE t (id TEXT PRIMARY KEY)`).Error)
	require.NoError(t, db.Session(ctx).Exec(`INSERT INTO t (id) VALUES ('a')`).Error)

	err = db.Session(ctx).Exec(`INSERT INTO t (id) VALUES ('a')`).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
