package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-productos/internal/application/catalog"
	"github.com/jhoicas/catalogo-productos/internal/application/dto"
	"github.com/jhoicas/catalogo-productos/internal/domain"
	"github.com/jhoicas/catalogo-productos/internal/infrastructure/jsonfile"
)

const phoneJSON = `{"category":"Electronics","sku":"elec001","name":"Smart Phone","description":"OLED",
"quantityInStock":10,"price":"1200","brand":"Acme","warrantyPeriodMonths":12}`

const bookJSON = `{"category":"Books","sku":"book001","name":"Dune","quantityInStock":3,"price":20,
"author":"Frank Herbert","isbn":"978-0441013593","pages":412,"publisher":"Ace"}`

func newTestManager(t *testing.T) (*catalog.Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	mgr := catalog.NewManager(jsonfile.NewCatalogRepository(path, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, mgr.Load(context.Background()))
	return mgr, path
}

func invoke(t *testing.T, mgr *catalog.Manager, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := run(context.Background(), mgr, args, options{out: &buf, log: zerolog.Nop()})
	return buf.String(), err
}

func TestRun_AgregarAjustarYBuscar(t *testing.T) {
	mgr, path := newTestManager(t)

	_, err := invoke(t, mgr, "add", phoneJSON)
	require.NoError(t, err)
	_, err = invoke(t, mgr, "add", bookJSON)
	require.NoError(t, err)

	out, err := invoke(t, mgr, "stock", "ELEC001", "-2")
	require.NoError(t, err)
	var change dto.StockChangeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &change))
	assert.Equal(t, dto.StockChangeResponse{SKU: "ELEC001", OldQuantity: 10, NewQuantity: 8, AvailabilityStatus: "InStock"}, change)

	out, err = invoke(t, mgr, "search", "phone")
	require.NoError(t, err)
	var list dto.ProductListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Smart Phone", list.Items[0].Name)

	out, err = invoke(t, mgr, "low-stock")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "BOOK001", list.Items[0].SKU)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quantityInStock": 8`)
}

func TestRun_ShowYUpdate(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := invoke(t, mgr, "add", bookJSON)
	require.NoError(t, err)

	_, err = invoke(t, mgr, "update", "book001", "Dune Mesías", "Segunda parte")
	require.NoError(t, err)

	out, err := invoke(t, mgr, "show", "BOOK001")
	require.NoError(t, err)
	assert.Contains(t, out, "Nombre: Dune Mesías")
	assert.Contains(t, out, "Autor: Frank Herbert")
}

func TestRun_Errores(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := invoke(t, mgr, "add", phoneJSON)
	require.NoError(t, err)

	_, err = invoke(t, mgr, "add", phoneJSON)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "DUPLICATE", errorResponse(err).Code)

	_, err = invoke(t, mgr, "stock", "ELEC001", "-50")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = invoke(t, mgr, "stock", "ELEC001", "muchos")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = invoke(t, mgr, "remove", "nope")
	assert.Equal(t, "NOT_FOUND", errorResponse(err).Code)

	_, err = invoke(t, mgr, "explode")
	assert.Equal(t, "USAGE", errorResponse(err).Code)
}

func TestRun_SoloLecturaTrasCargaFallida(t *testing.T) {
	mgr, _ := newTestManager(t)
	var buf bytes.Buffer
	err := run(context.Background(), mgr, []string{"add", phoneJSON}, options{out: &buf, log: zerolog.Nop(), readOnly: true})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Zero(t, mgr.Len())

	err = run(context.Background(), mgr, []string{"list"}, options{out: &buf, log: zerolog.Nop(), readOnly: true})
	assert.NoError(t, err)
}

func TestRealMain_CodigosDeSalida(t *testing.T) {
	t.Setenv("CATALOG_STORAGE", "bogus")
	assert.Equal(t, 2, realMain())

	path := filepath.Join(t.TempDir(), "catalog.json")
	t.Setenv("CATALOG_STORAGE", "file")
	t.Setenv("CATALOG_DATA_FILE", path)
	t.Setenv("LOG_LEVEL", "error")
	args := os.Args
	t.Cleanup(func() { os.Args = args })

	os.Args = []string{"catalog", "add", phoneJSON}
	assert.Equal(t, 0, realMain())
	_, err := os.Stat(path)
	require.NoError(t, err)

	os.Args = []string{"catalog", "stock", "ELEC001", "-20"}
	assert.Equal(t, 1, realMain())
}
