package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-productos/internal/application/catalog"
	"github.com/jhoicas/catalogo-productos/internal/application/dto"
	"github.com/jhoicas/catalogo-productos/internal/domain"
	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
	"github.com/jhoicas/catalogo-productos/internal/infrastructure/jsonfile"
)

const usage = `uso: catalog <operación> [argumentos]

  list [categoría]                     lista ordenada por nombre
  search <término>                     busca en nombre, descripción y SKU
  show <sku>                           detalle de un producto
  low-stock                            productos con stock bajo o agotados
  add <json>                           agrega un producto (registro con "category")
  update <sku> <nombre> <descripción> [categoría]
  stock <sku> <delta>                  ajusta existencias
  remove <sku>                         elimina un producto`

var errUsage = errors.New(usage)

var mutating = map[string]bool{"add": true, "update": true, "stock": true, "remove": true}

type options struct {
	out      io.Writer
	log      zerolog.Logger
	readOnly bool // la carga falló; no se permite guardar encima del origen
}

// run despacha una operación sobre el catálogo ya cargado y escribe la salida JSON en opts.out.
// Las operaciones que modifican el catálogo lo guardan al final.
func run(ctx context.Context, mgr *catalog.Manager, args []string, opts options) error {
	if len(args) == 0 {
		return errUsage
	}
	op, rest := args[0], args[1:]
	out, log := opts.out, opts.log
	if opts.readOnly && mutating[op] {
		return fmt.Errorf("%w: el catálogo no se pudo cargar, operación %q deshabilitada", domain.ErrPersistence, op)
	}

	switch op {
	case "list":
		var filter *entity.Category
		if len(rest) > 0 {
			c, known := entity.ParseCategory(rest[0])
			if !known {
				log.Warn().Str("category", rest[0]).Msg("categoría desconocida, se filtra literalmente")
			}
			filter = &c
		}
		return writeJSON(out, catalog.ToProductList(mgr.ListAll(filter)))

	case "search":
		if len(rest) < 1 {
			return errUsage
		}
		found, err := mgr.Search(rest[0])
		if err != nil {
			return err
		}
		return writeJSON(out, catalog.ToProductList(found))

	case "show":
		if len(rest) < 1 {
			return errUsage
		}
		p, ok := mgr.GetBySKU(rest[0])
		if !ok {
			return fmt.Errorf("%w: sku %s", domain.ErrNotFound, rest[0])
		}
		_, err := io.WriteString(out, p.Details())
		return err

	case "low-stock":
		return writeJSON(out, catalog.ToProductList(mgr.LowStock()))

	case "add":
		if len(rest) < 1 {
			return errUsage
		}
		p, err := jsonfile.DecodeProduct(json.RawMessage(rest[0]), log)
		if err != nil {
			return err
		}
		if err := mgr.AddProduct(p); err != nil {
			return err
		}
		if err := mgr.Save(ctx); err != nil {
			return err
		}
		return writeJSON(out, catalog.ToProductResponse(p))

	case "update":
		if len(rest) < 3 {
			return errUsage
		}
		var category entity.Category
		if len(rest) > 3 {
			category, _ = entity.ParseCategory(rest[3])
		}
		if err := mgr.UpdateDetails(rest[0], rest[1], rest[2], category); err != nil {
			return err
		}
		if err := mgr.Save(ctx); err != nil {
			return err
		}
		p, _ := mgr.GetBySKU(rest[0])
		return writeJSON(out, catalog.ToProductResponse(p))

	case "stock":
		if len(rest) < 2 {
			return errUsage
		}
		delta, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("%w: delta %q no es un entero", domain.ErrInvalidInput, rest[1])
		}
		p, ok := mgr.GetBySKU(rest[0])
		if !ok {
			return fmt.Errorf("%w: sku %s", domain.ErrNotFound, rest[0])
		}
		old := p.Quantity()
		if err := mgr.AdjustStock(rest[0], delta); err != nil {
			return err
		}
		if err := mgr.Save(ctx); err != nil {
			return err
		}
		return writeJSON(out, dto.StockChangeResponse{
			SKU:                p.SKU(),
			OldQuantity:        old,
			NewQuantity:        p.Quantity(),
			AvailabilityStatus: string(p.Status()),
		})

	case "remove":
		if len(rest) < 1 {
			return errUsage
		}
		if err := mgr.RemoveProduct(rest[0]); err != nil {
			return err
		}
		return mgr.Save(ctx)
	}
	return errUsage
}

// errorResponse traduce un error de dominio al cuerpo de salida.
func errorResponse(err error) dto.ErrorResponse {
	code := "INTERNAL"
	switch {
	case errors.Is(err, errUsage):
		code = "USAGE"
	case errors.Is(err, domain.ErrInvalidInput):
		code = "INVALID_INPUT"
	case errors.Is(err, domain.ErrNotFound):
		code = "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		code = "DUPLICATE"
	case errors.Is(err, domain.ErrInvalidOperation):
		code = "INVALID_OPERATION"
	case errors.Is(err, domain.ErrPersistence):
		code = "PERSISTENCE"
	}
	return dto.ErrorResponse{Code: code, Message: err.Error()}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
