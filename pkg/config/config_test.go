package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-productos/pkg/config"
)

func TestLoadFrom_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "catalogo-productos", cfg.App.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, config.StorageFile, cfg.Catalog.Storage)
	assert.Equal(t, "data/catalog.json", cfg.Catalog.DataFile)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestLoadFrom_ArchivoEnvYVariablesDeEntorno(t *testing.T) {
	dir := t.TempDir()
	content := "CATALOG_DATA_FILE=/tmp/otro.json\nLOG_LEVEL=debug\nDB_PORT=6543\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/otro.json", cfg.Catalog.DataFile)
	assert.Equal(t, "warn", cfg.Log.Level, "la variable de entorno tiene prioridad")
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestLoadFrom_StorageInvalido(t *testing.T) {
	t.Setenv("CATALOG_STORAGE", "s3")
	_, err := config.LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "catalogo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/catalogo?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", db.ConnectionString())
}
