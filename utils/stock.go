package utils

type StockInfo struct {
	TileRange   [2]int
	Price       int
	BonusFirst  int
	BonusSecond int
}

// sizeBrackets 公司规模分档，第 i 档股价 = 基价 + 100*i
var sizeBrackets = [][2]int{
	{2, 2}, {3, 3}, {4, 4}, {5, 5},
	{6, 10}, {11, 20}, {21, 30}, {31, 40},
	{41, 1000},
}

// basePrice 两个 tile 时的股价
var basePrice = map[string]int{
	"phoenix": 400,
	"quantum": 400,

	"hydra":   300,
	"fusion":  300,
	"america": 300,

	"sackson": 200,
	"zeta":    200,
}

// GetStockInfo 按公司名和 tile 数量计算股价和红利（大股东 10 倍，小股东 5 倍），未知公司返回 nil
func GetStockInfo(company string, tileCount int) *StockInfo {
	base, ok := basePrice[company]
	if !ok || tileCount < 0 {
		return nil
	}
	if tileCount < sizeBrackets[0][0] {
		return &StockInfo{TileRange: [2]int{0, sizeBrackets[0][0] - 1}}
	}
	for i, r := range sizeBrackets {
		if tileCount >= r[0] && tileCount <= r[1] {
			price := base + 100*i
			return &StockInfo{TileRange: r, Price: price, BonusFirst: 10 * price, BonusSecond: 5 * price}
		}
	}
	return nil
}
