package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/catalogo-productos/internal/application/catalog"
	"github.com/jhoicas/catalogo-productos/internal/domain/repository"
	"github.com/jhoicas/catalogo-productos/internal/infrastructure/jsonfile"
	"github.com/jhoicas/catalogo-productos/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-productos/pkg/config"
	"github.com/jhoicas/catalogo-productos/pkg/logger"
)

func main() {
	os.Exit(realMain())
}

// realMain devuelve el código de salida; así los defer (pool, señales) se ejecutan antes de os.Exit.
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		return 2
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Debug().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Catalog.Storage).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo repository.CatalogRepository
	switch cfg.Catalog.Storage {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("conexión a PostgreSQL")
			return 1
		}
		defer pool.Close()
		pgRepo := postgres.NewCatalogRepository(pool, log.Zerolog())
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Error().Err(err).Msg("esquema de catálogo")
			return 1
		}
		repo = pgRepo
	default:
		fileRepo := jsonfile.NewCatalogRepository(cfg.Catalog.DataFile, log.Zerolog())
		log.Debug().Str("path", fileRepo.Path()).Msg("catálogo en archivo")
		repo = fileRepo
	}

	mgr := catalog.NewManager(repo, log.Zerolog())
	// Un documento corrupto no detiene el proceso: se continúa con catálogo vacío en solo lectura
	// para no sobrescribir el origen con un catálogo vacío.
	readOnly := mgr.Load(ctx) != nil

	if err := run(ctx, mgr, os.Args[1:], options{out: os.Stdout, log: log.Zerolog(), readOnly: readOnly}); err != nil {
		_ = writeJSON(os.Stderr, errorResponse(err))
		return 1
	}
	return 0
}
