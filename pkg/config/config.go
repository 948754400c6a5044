package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Tipos de almacenamiento soportados para el catálogo.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Log     LogConfig
	Catalog CatalogConfig
	DB      DBConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel del logger.
type LogConfig struct {
	Level string
}

// CatalogConfig dónde se persiste el catálogo.
type CatalogConfig struct {
	Storage  string // file | postgres
	DataFile string // ruta del documento JSON cuando Storage=file
}

// DBConfig configuración de PostgreSQL (solo si Storage=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, LOG_LEVEL, CATALOG_STORAGE, CATALOG_DATA_FILE, DB_HOST, etc.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom igual que Load pero buscando .env/config.env en dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	_ = v.MergeInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(dir)
	v.AddConfigPath(dir + "/config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "catalogo-productos"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Catalog: CatalogConfig{
			Storage:  strings.ToLower(getString(v, "CATALOG_STORAGE", StorageFile)),
			DataFile: getString(v, "CATALOG_DATA_FILE", "data/catalog.json"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "catalogo"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
	}

	switch cfg.Catalog.Storage {
	case StorageFile:
		if cfg.Catalog.DataFile == "" {
			return nil, fmt.Errorf("CATALOG_DATA_FILE vacío")
		}
	case StoragePostgres:
	default:
		return nil, fmt.Errorf("CATALOG_STORAGE inválido: %q", cfg.Catalog.Storage)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
