package suggestions

import (
	"context"
	"fmt"
	"testing"

	"techsheet-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupIndex(t *testing.T) *Index {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.CosmeticDetails{}, &domain.SupplementDetails{}))

	return &Index{Rdb: rdb, DB: db}
}

func TestSuggest_MinimumPrefixLength(t *testing.T) {
	x := setupIndex(t)
	x.Record(context.Background(), "name", "Crema Mani")

	for _, prefix := range []string{"", "c", "cr"} {
		got, err := x.Suggest(context.Background(), "name", prefix)
		require.NoError(t, err)
		assert.Empty(t, got, "prefix %q", prefix)
	}
}

func TestSuggest_CaseInsensitiveSubstring(t *testing.T) {
	x := setupIndex(t)
	x.Record(context.Background(), "name", "Crema Mani")
	x.Record(context.Background(), "name", "CREMA VISO")
	x.Record(context.Background(), "name", "Integratore C")

	got, err := x.Suggest(context.Background(), "name", "cre")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"Crema Mani", "CREMA VISO"}, got)

	// Substring, not only prefix.
	got, err = x.Suggest(context.Background(), "name", "mani")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crema Mani"}, got)
}

func TestSuggest_CapsAtTen(t *testing.T) {
	x := setupIndex(t)
	for i := 0; i < 15; i++ {
		x.Record(context.Background(), "name", fmt.Sprintf("Crema %02d", i))
	}

	got, err := x.Suggest(context.Background(), "name", "cre")
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestSuggest_FieldsAreIsolated(t *testing.T) {
	x := setupIndex(t)
	x.Record(context.Background(), "name", "Crema Mani")
	x.Record(context.Background(), "category", "Cremoso")

	got, err := x.Suggest(context.Background(), "category", "cre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cremoso"}, got)
}

func TestRecord_SkipsBlankAndDeduplicates(t *testing.T) {
	x := setupIndex(t)
	x.Record(context.Background(), "name", "   ")
	x.Record(context.Background(), "name", "Crema Mani")
	x.Record(context.Background(), "name", "Crema Mani")

	got, err := x.Suggest(context.Background(), "name", "cre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crema Mani"}, got)
}

func TestRecordProduct_CoversTypeFields(t *testing.T) {
	x := setupIndex(t)
	p := &domain.Product{Name: "Crema Mani", Category: "Cosmesi"}
	cos := &domain.CosmeticDetails{Color: "Bianco perlato"}

	x.RecordProduct(context.Background(), p, cos, nil)

	got, err := x.Suggest(context.Background(), "color", "bia")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bianco perlato"}, got)
}

func TestRebuild_FromDatabase(t *testing.T) {
	x := setupIndex(t)

	// Stale entry that no product carries anymore.
	x.Record(context.Background(), "name", "Prodotto Rimosso")

	p := domain.Product{Name: "Crema Mani", Type: domain.TypeCosmetic}
	require.NoError(t, x.DB.Create(&p).Error)
	require.NoError(t, x.DB.Create(&domain.CosmeticDetails{ProductID: p.ID, Fragrance: "Agrumata"}).Error)

	require.NoError(t, x.Rebuild(context.Background()))

	got, err := x.Suggest(context.Background(), "name", "rimosso")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = x.Suggest(context.Background(), "name", "cre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crema Mani"}, got)

	got, err = x.Suggest(context.Background(), "fragrance", "agr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Agrumata"}, got)
}
