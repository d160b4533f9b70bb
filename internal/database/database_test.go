package database

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starhold/battlesim/internal/model"
)

func TestPostgresDSN(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "db.internal")
	viper.Set("db.port", "6543")
	viper.Set("db.username", "sim")
	viper.Set("db.password", "secret")
	viper.Set("db.database", "archive")

	assert.Equal(t,
		"host=db.internal port=6543 user=sim password=secret dbname=archive sslmode=disable",
		PostgresDSN())
}

func TestGetSqliteDB_InMemoryIsolated(t *testing.T) {
	a, err := GetSqliteDB("")
	require.NoError(t, err)
	b, err := GetSqliteDB("")
	require.NoError(t, err)

	require.NoError(t, Setup(a, zerolog.Nop()))
	require.NoError(t, a.Create(&model.Battle{BattleID: "only-in-a"}).Error)

	assert.False(t, b.Migrator().HasTable(&model.Battle{}))
}

func TestSetupAndDump(t *testing.T) {
	db, err := GetSqliteDB("")
	require.NoError(t, err)

	var logs bytes.Buffer
	require.NoError(t, Setup(db, zerolog.New(&logs)))
	assert.Contains(t, logs.String(), "Database setup complete")

	for _, m := range model.DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}

	require.NoError(t, db.Create(&model.Battle{BattleID: "b-1", Region: "mun-orbit", StartTime: time.Now()}).Error)

	dump := filepath.Join(t.TempDir(), "archive.db")
	require.NoError(t, DumpMemoryDBToDisk(db, dump))
	// a second dump replaces the first
	require.NoError(t, DumpMemoryDBToDisk(db, dump))

	onDisk, err := GetSqliteDB(dump)
	require.NoError(t, err)
	var got model.Battle
	require.NoError(t, onDisk.Where("battle_id = ?", "b-1").First(&got).Error)
	assert.Equal(t, "mun-orbit", got.Region)
}

func TestDumpMemoryDBToDisk_NoPath(t *testing.T) {
	db, err := GetSqliteDB("")
	require.NoError(t, err)
	assert.Error(t, DumpMemoryDBToDisk(db, ""))
}

func TestGetBackupDBPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.db", "b.db", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c.db"), 0755))

	paths, err := GetBackupDBPaths(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.db"), filepath.Join(dir, "b.db")}, paths)

	_, err = GetBackupDBPaths(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestTimed(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs).Level(zerolog.DebugLevel)

	boom := errors.New("boom")
	err := Timed(log, "flush", func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, logs.String(), `"message":"flush"`)
	assert.Contains(t, logs.String(), `"error":"boom"`)
}
