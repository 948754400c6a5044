package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-productos/internal/domain"
	"github.com/jhoicas/catalogo-productos/internal/domain/entity"
	"github.com/jhoicas/catalogo-productos/internal/infrastructure/jsonfile"
)

func TestNewProductRow_AttributesDecodificable(t *testing.T) {
	p, err := entity.NewBookProduct(entity.ProductInput{
		SKU: "b1", Name: "Dune", Price: decimal.RequireFromString("19.90"), Quantity: 7,
	}, entity.BookDetails{Author: "Frank Herbert", ISBN: "978-0441013593", Pages: 412, Publisher: "Ace"})
	require.NoError(t, err)

	row, err := newProductRow(p)
	require.NoError(t, err)

	assert.Equal(t, "B1", row.SKU)
	assert.Equal(t, "Books", row.Category)
	assert.True(t, row.Price.Equal(decimal.RequireFromString("19.90")))
	assert.Len(t, row.args(), 8)

	back, err := jsonfile.DecodeProduct(row.Attributes, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, entity.KindBook, back.Kind())
	d, _ := back.Book()
	assert.Equal(t, 412, d.Pages)
	assert.Equal(t, 7, back.Quantity())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

func TestSchema_AttributesYPrecioSinEscalaFija(t *testing.T) {
	assert.Regexp(t, `attributes\s+JSONB NOT NULL`, schemaSQL)
	assert.Regexp(t, `price\s+NUMERIC NOT NULL`, schemaSQL)
	assert.NotContains(t, schemaSQL, "NUMERIC(")
	assert.Contains(t, insertSQL, "attributes")
}

func TestNewProductRow_PrecioConservaPrecision(t *testing.T) {
	p, err := entity.NewProduct(entity.ProductInput{
		SKU: "g1", Name: "Tornillo", Price: decimal.RequireFromString("0.0125"), Quantity: 100,
	})
	require.NoError(t, err)

	row, err := newProductRow(p)
	require.NoError(t, err)
	back, err := jsonfile.DecodeProduct(row.Attributes, zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, row.Price.Equal(decimal.RequireFromString("0.0125")))
	assert.True(t, row.Price.Equal(back.Price()), "columna price y attributes coinciden")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_CommitSiFnTieneExito(t *testing.T) {
	tx := &fakeTx{}
	runner := NewTxRunner(&fakeDB{tx: tx})

	err := runner.Run(context.Background(), func(got pgx.Tx) error {
		assert.Same(t, tx, got)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestTxRunner_RollbackSiFnFalla(t *testing.T) {
	tx := &fakeTx{}
	boom := errors.New("boom")

	err := NewTxRunner(&fakeDB{tx: tx}).Run(context.Background(), func(pgx.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestTxRunner_BeginYCommitFallidos(t *testing.T) {
	err := NewTxRunner(&fakeDB{beginErr: errors.New("sin conexión")}).
		Run(context.Background(), func(pgx.Tx) error { return nil })
	assert.ErrorIs(t, err, domain.ErrPersistence)

	tx := &fakeTx{commitErr: errors.New("serialization failure")}
	err = NewTxRunner(&fakeDB{tx: tx}).Run(context.Background(), func(pgx.Tx) error { return nil })
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestCatalogRepo_SaveReemplazaEnUnaTransaccion(t *testing.T) {
	tx := &fakeTx{}
	repo := NewCatalogRepository(&fakeDB{tx: tx}, zerolog.Nop())
	a, err := entity.NewProduct(entity.ProductInput{SKU: "a1", Name: "Taza", Quantity: 2})
	require.NoError(t, err)
	b, err := entity.NewProduct(entity.ProductInput{SKU: "a2", Name: "Plato", Quantity: 4})
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), []*entity.Product{a, b}))

	require.Len(t, tx.execs, 1)
	assert.Contains(t, tx.execs[0], "DELETE FROM catalog_products")
	assert.Equal(t, 2, tx.batchLen)
	assert.True(t, tx.committed)
}

func TestCatalogRepo_SaveViolacionUnicaEsDuplicado(t *testing.T) {
	tx := &fakeTx{batchErr: &pgconn.PgError{Code: "23505"}}
	repo := NewCatalogRepository(&fakeDB{tx: tx}, zerolog.Nop())
	p, err := entity.NewProduct(entity.ProductInput{SKU: "a1", Name: "Taza"})
	require.NoError(t, err)

	err = repo.Save(context.Background(), []*entity.Product{p})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

// fakeDB solo implementa Begin; el resto del DB embebido queda nil.
type fakeDB struct {
	DB
	tx       *fakeTx
	beginErr error
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

type fakeTx struct {
	pgx.Tx
	execs      []string
	batchLen   int
	batchErr   error
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batchLen = b.Len()
	return fakeBatchResults{err: f.batchErr}
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeBatchResults struct {
	pgx.BatchResults
	err error
}

func (f fakeBatchResults) Close() error { return f.err }
