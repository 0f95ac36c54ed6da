package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T, yaml string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	LoadConfig()
}

func TestGetConfigDatabaseKeys(t *testing.T) {
	loadTestConfig(t, "DB_HOST: db.internal\nDB_USER: app\nDB_TIMEZONE: Europe/Berlin\n")

	assert.Equal(t, "db.internal", GetConfig("DB_HOST"))
	assert.Equal(t, "app", GetConfig("DB_USER"))
	assert.Equal(t, "Europe/Berlin", GetConfig("DB_TIMEZONE"))
}

func TestGetConfigUnsetKeyIsEmpty(t *testing.T) {
	loadTestConfig(t, "DB_HOST: db.internal\n")

	assert.Empty(t, GetConfig("DB_TIMEZONE"))
	assert.Empty(t, GetConfig("NOT_A_KEY"))
}
