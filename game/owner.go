package game

import "fmt"

type Brand string

const (
	Phoenix Brand = "phoenix"
	Quantum Brand = "quantum"
	Hydra   Brand = "hydra"
	Fusion  Brand = "fusion"
	America Brand = "america"
	Sackson Brand = "sackson"
	Zeta    Brand = "zeta"
)

// Brands 固定顺序的全部公司
var Brands = []Brand{Phoenix, Quantum, Hydra, Fusion, America, Sackson, Zeta}

func (b Brand) Valid() bool {
	for _, brand := range Brands {
		if brand == b {
			return true
		}
	}
	return false
}

type OwnerKind uint8

const (
	Unowned OwnerKind = iota
	Incorporated
	Branded
)

const incorporatedLabel = "incorporated"

// Owner tile 的归属：未放置 / 已放置未成立公司 / 某个公司
type Owner struct {
	Kind  OwnerKind
	Brand Brand
}

var (
	NoOwner           = Owner{}
	IncorporatedOwner = Owner{Kind: Incorporated}
)

func BrandOwner(b Brand) Owner {
	return Owner{Kind: Branded, Brand: b}
}

func (o Owner) IsBrand() bool {
	return o.Kind == Branded
}

func (o Owner) String() string {
	switch o.Kind {
	case Incorporated:
		return incorporatedLabel
	case Branded:
		return string(o.Brand)
	default:
		return ""
	}
}

func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Owner) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "":
		*o = NoOwner
	case incorporatedLabel:
		*o = IncorporatedOwner
	default:
		if !Brand(s).Valid() {
			return fmt.Errorf("未知的归属: %q", s)
		}
		*o = BrandOwner(Brand(s))
	}
	return nil
}
