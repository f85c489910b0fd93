package game

import "sort"

type PlacementKind int

const (
	LoneTile PlacementKind = iota
	FoundCorporation
	GrowCorporation
	TwoWayMerge
	MultiWayMerge
)

func (k PlacementKind) String() string {
	switch k {
	case FoundCorporation:
		return "found"
	case GrowCorporation:
		return "grow"
	case TwoWayMerge:
		return "two-way-merge"
	case MultiWayMerge:
		return "multi-way-merge"
	default:
		return "lone"
	}
}

// Placement 放置 tile 后连通块的分类结果
type Placement struct {
	Kind   PlacementKind
	Group  []Tile
	Brands []Brand // 按规模降序，同规模按 Brands 顺序
}

// classify 按连通块内出现的归属分类
func classify(group []Tile, corporations map[Brand]*Corporation, hasFreeBrand bool) Placement {
	seen := make(map[Brand]bool)
	for _, t := range group {
		if t.Owner.IsBrand() {
			seen[t.Owner.Brand] = true
		}
	}
	var brands []Brand
	for _, brand := range Brands {
		if seen[brand] {
			brands = append(brands, brand)
		}
	}
	sort.SliceStable(brands, func(i, j int) bool {
		return corporations[brands[i]].Size() > corporations[brands[j]].Size()
	})

	placement := Placement{Group: group, Brands: brands}
	switch {
	case len(brands) == 0 && len(group) >= 2 && hasFreeBrand:
		placement.Kind = FoundCorporation
	case len(brands) == 0:
		placement.Kind = LoneTile
	case len(brands) == 1:
		placement.Kind = GrowCorporation
	case len(brands) == 2:
		placement.Kind = TwoWayMerge
	default:
		placement.Kind = MultiWayMerge
	}
	return placement
}

// largest 返回规模最大的候选（可能并列）
func largest(brands []Brand, corporations map[Brand]*Corporation) []Brand {
	var top []Brand
	max := -1
	for _, b := range brands {
		size := corporations[b].Size()
		switch {
		case size > max:
			max = size
			top = []Brand{b}
		case size == max:
			top = append(top, b)
		}
	}
	return top
}
