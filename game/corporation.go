package game

import (
	"encoding/json"

	"go-acquire/utils"
)

const (
	MaxStocks = 25
	SafeSize  = 11
	EndSize   = 41
)

type CorporationStats struct {
	Stocks        int  `json:"stocks"`
	Size          int  `json:"size"`
	IsActive      bool `json:"isActive"`
	IsSafe        bool `json:"isSafe"`
	Price         int  `json:"price"`
	MajorityPrice int  `json:"majorityPrice"`
	MinorityPrice int  `json:"minorityPrice"`
}

type Corporation struct {
	name     Brand
	stocks   int
	isActive bool
	size     int
	isSafe   bool
}

func NewCorporation(name Brand) *Corporation {
	return &Corporation{name: name, stocks: MaxStocks}
}

func createCorporations() map[Brand]*Corporation {
	corporations := make(map[Brand]*Corporation, len(Brands))
	for _, brand := range Brands {
		corporations[brand] = NewCorporation(brand)
	}
	return corporations
}

func (c *Corporation) Name() Brand    { return c.name }
func (c *Corporation) Stocks() int    { return c.stocks }
func (c *Corporation) Size() int      { return c.size }
func (c *Corporation) IsActive() bool { return c.isActive }
func (c *Corporation) IsSafe() bool   { return c.isSafe }

func (c *Corporation) Establish() {
	c.isActive = true
}

// IncreaseSize 超过 10 块即为安全公司，之后不再撤销
func (c *Corporation) IncreaseSize(n int) {
	c.size += n
	if c.size >= SafeSize {
		c.isSafe = true
	}
}

// Defunct 被并购后清零
func (c *Corporation) Defunct() {
	c.size = 0
	c.isActive = false
}

// DecrementStocks 调用方需保证 stocks >= n
func (c *Corporation) DecrementStocks(n int) {
	c.stocks -= n
}

func (c *Corporation) IncrementStocks(n int) {
	c.stocks += n
}

func (c *Corporation) stockInfo() utils.StockInfo {
	if info := utils.GetStockInfo(string(c.name), c.size); info != nil {
		return *info
	}
	return utils.StockInfo{}
}

func (c *Corporation) Price() int {
	return c.stockInfo().Price
}

func (c *Corporation) Stats() CorporationStats {
	info := c.stockInfo()
	return CorporationStats{
		Stocks:        c.stocks,
		Size:          c.size,
		IsActive:      c.isActive,
		IsSafe:        c.isSafe,
		Price:         info.Price,
		MajorityPrice: info.BonusFirst,
		MinorityPrice: info.BonusSecond,
	}
}

type corporationJSON struct {
	Name     Brand `json:"name"`
	Stocks   int   `json:"stocks"`
	IsActive bool  `json:"isActive"`
	Size     int   `json:"size"`
	IsSafe   bool  `json:"isSafe"`
}

func (c *Corporation) MarshalJSON() ([]byte, error) {
	return json.Marshal(corporationJSON{
		Name:     c.name,
		Stocks:   c.stocks,
		IsActive: c.isActive,
		Size:     c.size,
		IsSafe:   c.isSafe,
	})
}

func (c *Corporation) UnmarshalJSON(data []byte) error {
	var raw corporationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.name = raw.Name
	c.stocks = raw.Stocks
	c.isActive = raw.IsActive
	c.size = raw.Size
	c.isSafe = raw.IsSafe
	return nil
}
