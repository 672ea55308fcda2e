// Package shipping prices delivery for a cart snapshot. All fees are in
// minor currency units. The tier table is the single place the rules
// live; retuning shipping means editing the table, not the code.
package shipping

import (
	"strings"

	"printshop/internal/cart"
)

// heavySizeMarker marks the largest print size on offer. A line whose
// size label contains it, or any framed line, makes the whole shipment
// heavy.
const heavySizeMarker = "A2"

// Tier is one shipping zone. BaseFee applies to ordinary carts,
// HeavyFee replaces it when the cart contains a heavy item.
type Tier struct {
	Label     string
	Countries []string // empty = catch-all
	BaseFee   int64
	HeavyFee  int64
}

// Tiers are checked in order, first match wins. The last tier has no
// country list and catches everything, including unknown codes.
var tiers = []Tier{
	{
		Label:     "Germany",
		Countries: []string{"DE"},
		BaseFee:   390,
		HeavyFee:  0,
	},
	{
		Label: "European Union",
		Countries: []string{
			"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
			"GR", "HU", "IE", "IT", "LV", "LT", "LU", "MT", "NL", "PL",
			"PT", "RO", "SK", "SI", "ES", "SE",
		},
		BaseFee:  490,
		HeavyFee: 0,
	},
	{
		Label:     "Europe (non-EU)",
		Countries: []string{"CH", "GB", "NO", "IS", "LI", "RS", "BA", "ME", "MK", "AL", "UA", "MD"},
		BaseFee:   990,
		HeavyFee:  990,
	},
	{
		Label:    "Worldwide",
		BaseFee:  1490,
		HeavyFee: 1490,
	},
}

// HasHeavyItem reports whether any line is the largest print size or
// framed. The marker match is case-insensitive.
func HasHeavyItem(lines []cart.Line) bool {
	marker := strings.ToLower(heavySizeMarker)
	for _, l := range lines {
		if l.Key.Framed {
			return true
		}
		if strings.Contains(strings.ToLower(l.SizeName), marker) {
			return true
		}
	}
	return false
}

// Quote returns the shipping fee and tier label for a cart snapshot and
// a destination country. It is a pure function of its inputs.
func Quote(lines []cart.Line, countryCode string) (int64, string) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	heavy := HasHeavyItem(lines)

	for _, t := range tiers {
		if !t.matches(code) {
			continue
		}
		if heavy {
			return t.HeavyFee, t.Label
		}
		return t.BaseFee, t.Label
	}
	// Unreachable: the last tier is a catch-all.
	return 0, ""
}

// Subtotal sums the snapshot prices in minor units.
func Subtotal(lines []cart.Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Total().Shift(2).IntPart()
	}
	return total
}

func (t Tier) matches(code string) bool {
	if len(t.Countries) == 0 {
		return true
	}
	for _, c := range t.Countries {
		if c == code {
			return true
		}
	}
	return false
}
