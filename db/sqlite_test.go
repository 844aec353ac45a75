package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/syntree/models"
)

func TestConnectMemory(t *testing.T) {
	db, err := Connect(":memory:", false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	// Migration ran: tables exist and accept writes.
	session := models.Session{ID: "sess-001", SchemaName: "demo"}
	require.NoError(t, db.Create(&session).Error)

	var got models.Session
	require.NoError(t, db.Where("id = ?", session.ID).First(&got).Error)
	assert.Equal(t, "demo", got.SchemaName)
}

func TestConnectCreatesDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "deep", "syntree.db")

	db, err := Connect(dsn, false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.FileExists(t, dsn)
}

func TestConnectDebugMode(t *testing.T) {
	db, err := Connect(":memory:", true)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.Close()
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"libsql://demo.turso.io", true},
		{"https://demo.turso.io", true},
		{"http://localhost:8080/db", true},
		{"/tmp/syntree.db", false},
		{":memory:", false},
		{"syntree.db", false},
		{"libsqlfile.db", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, isURL(tt.dsn))
		})
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db, err := Connect(":memory:", false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	// Running migrations again is a no-op, not an error.
	require.NoError(t, Migrate(db))

	for _, table := range []string{"sessions", "revisions", "query_runs"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
