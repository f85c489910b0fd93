package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStockInfo(t *testing.T) {
	tests := []struct {
		company string
		tiles   int
		price   int
		first   int
		second  int
	}{
		{"sackson", 2, 200, 2000, 1000},
		{"zeta", 5, 500, 5000, 2500},
		{"hydra", 2, 300, 3000, 1500},
		{"america", 7, 700, 7000, 3500},
		{"phoenix", 11, 900, 9000, 4500},
		{"quantum", 41, 1200, 12000, 6000},
		{"fusion", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		info := GetStockInfo(tt.company, tt.tiles)
		require.NotNil(t, info, tt.company)
		assert.Equal(t, tt.price, info.Price, tt.company)
		assert.Equal(t, tt.first, info.BonusFirst, tt.company)
		assert.Equal(t, tt.second, info.BonusSecond, tt.company)
	}
}

func TestGetStockInfoUnknownCompany(t *testing.T) {
	assert.Nil(t, GetStockInfo("Tower", 3))
}
