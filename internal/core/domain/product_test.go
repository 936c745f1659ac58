// internal/core/domain/product_test.go
package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcanales/floreria-be/internal/core/domain"
)

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		wantErr string
	}{
		{
			name:    "valid flower",
			product: domain.Product{Name: "Rosa Roja", Category: domain.CategoryLooseFlower, Stock: 50, MinStock: 10},
		},
		{
			name:    "valid bouquet",
			product: domain.Product{Name: "Ramo Grande", Category: domain.CategoryBouquet, Stock: 3},
		},
		{
			name:    "missing name",
			product: domain.Product{Category: domain.CategoryLooseFlower},
			wantErr: "nombre is required",
		},
		{
			name:    "negative stock",
			product: domain.Product{Name: "Rosa Roja", Stock: -1},
			wantErr: "stock cannot be negative",
		},
		{
			name:    "unknown category",
			product: domain.Product{Name: "Rosa Roja", Category: "plantas"},
			wantErr: "unknown categoria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestProduct_Validate_DefaultsCategory(t *testing.T) {
	p := domain.Product{Name: "Rosa Roja"}
	require.NoError(t, p.Validate())
	assert.Equal(t, domain.CategoryLooseFlower, p.Category)
}

func TestProduct_PrepareForStorage(t *testing.T) {
	p := domain.Product{Name: "Rosa Roja"}
	p.PrepareForStorage()

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.DefaultUnit, p.Unit)
	assert.False(t, p.CreatedAt.IsZero())

	// An existing id is never regenerated.
	id := p.ID
	p.PrepareForStorage()
	assert.Equal(t, id, p.ID)
}

func TestProduct_OpeningOrCurrent(t *testing.T) {
	opening := 40
	withSnapshot := domain.Product{Stock: 55, OpeningStock: &opening}
	assert.Equal(t, 40, withSnapshot.OpeningOrCurrent())

	fresh := domain.Product{Stock: 55}
	assert.Equal(t, 55, fresh.OpeningOrCurrent())
}

func TestProduct_IsLowStock(t *testing.T) {
	assert.True(t, (&domain.Product{Stock: 5, MinStock: 5}).IsLowStock())
	assert.True(t, (&domain.Product{Stock: 0, MinStock: 5}).IsLowStock())
	assert.False(t, (&domain.Product{Stock: 6, MinStock: 5}).IsLowStock())
}
