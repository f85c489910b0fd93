package game

import "sort"

type holder struct {
	username string
	count    int
}

// shareholders 按持股数量降序，同数量保持座位顺序
func shareholders(players []*Player, name Brand) []holder {
	var holders []holder
	for _, p := range players {
		if n := p.Stocks(name); n > 0 {
			holders = append(holders, holder{username: p.username, count: n})
		}
	}
	sort.SliceStable(holders, func(i, j int) bool {
		return holders[i].count > holders[j].count
	})
	return holders
}

// computeBonuses 计算大小股东红利：
// 只有一个股东时拿走两份；最大持股并列时两份合并平分；
// 否则最大股东独得大股东红利，其余股东平分小股东红利
func computeBonuses(holders []holder, majority, minority int) map[string]int {
	dividends := make(map[string]int)
	if len(holders) == 0 {
		return dividends
	}
	if len(holders) == 1 {
		dividends[holders[0].username] = roundUpHundred(majority + minority)
		return dividends
	}

	top := 1
	for top < len(holders) && holders[top].count == holders[0].count {
		top++
	}
	if top > 1 {
		share := splitShare(majority+minority, top)
		for _, h := range holders[:top] {
			dividends[h.username] = share
		}
		return dividends
	}

	dividends[holders[0].username] = roundUpHundred(majority)
	rest := holders[1:]
	share := splitShare(minority, len(rest))
	for _, h := range rest {
		dividends[h.username] = share
	}
	return dividends
}

func splitShare(total, n int) int {
	return roundUpHundred((total + n - 1) / n)
}

// roundUpHundred 红利统一向上取整到 100
func roundUpHundred(amount int) int {
	return (amount + 99) / 100 * 100
}

// DistributeBonuses 按公司当前规模给股东发放红利
func DistributeBonuses(corp *Corporation, players []*Player) map[string]int {
	stats := corp.Stats()
	dividends := computeBonuses(shareholders(players, corp.Name()), stats.MajorityPrice, stats.MinorityPrice)
	for _, p := range players {
		if money, ok := dividends[p.username]; ok {
			p.AddIncome(money)
		}
	}
	return dividends
}
