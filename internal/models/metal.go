package models

type MetalType string

const (
	MetalGold   MetalType = "gold"
	MetalSilver MetalType = "silver"
	MetalOthers MetalType = "others"
)

func (m MetalType) Valid() bool {
	switch m {
	case MetalGold, MetalSilver, MetalOthers:
		return true
	}
	return false
}

// Subtype options depend on the metal; "others" accepts free text.
var metalSubtypes = map[MetalType][]string{
	MetalGold:   {"regular gold jewellery", "stone embedded gold jewellery"},
	MetalSilver: {"regular silver jewellery", "stone embedded silver jewellery"},
}

func ValidSubtype(metal MetalType, subtype string) bool {
	allowed, ok := metalSubtypes[metal]
	if !ok {
		return subtype != ""
	}
	for _, s := range allowed {
		if s == subtype {
			return true
		}
	}
	return false
}
