package memory_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCatalog(t *testing.T) {
	product, restaurant := kernel.NewUUID(), kernel.NewUUID()
	doc := `[{"id":"` + product.String() + `","restaurantId":"` + restaurant.String() + `","price":"10000"}]`

	c, err := memory.ReadCatalog(strings.NewReader(doc))
	require.NoError(t, err)

	found, err := c.Products(t.Context(), []kernel.UUID{product, kernel.NewUUID()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[product].RestaurantID.IsEqual(restaurant))
	assert.True(t, decimal.NewFromInt(10000).Equal(found[product].Price))
}

func TestReadCatalog_Rejects(t *testing.T) {
	id := kernel.NewUUID().String()
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"bad product id", `[{"id":"x","restaurantId":"` + id + `","price":1}]`},
		{"missing restaurant", `[{"id":"` + id + `","price":1}]`},
		{"negative price", `[{"id":"` + id + `","restaurantId":"` + id + `","price":-1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := memory.ReadCatalog(strings.NewReader(tt.doc))

			require.Error(t, err)
			assert.True(t, errs.IsValidation(err), err)
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	c, err := memory.LoadCatalogFile(path)
	require.NoError(t, err)
	found, err := c.Products(t.Context(), []kernel.UUID{kernel.NewUUID()})
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = memory.LoadCatalogFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
