package cards

import "github.com/youruser/duelsim/internal/deck"

type FilterOptions struct {
	Zones []deck.Zone `json:"zones"`
	// ImageMode is "with", "without", or "" for both.
	ImageMode string `json:"imageMode"`
}

func containsZone(zones []deck.Zone, z deck.Zone) bool {
	for _, c := range zones {
		if c == z {
			return true
		}
	}
	return false
}

func Filter(cards []Card, opt FilterOptions) []Card {
	var out []Card
	for _, c := range cards {
		if len(opt.Zones) > 0 && !containsZone(opt.Zones, c.Zone) {
			continue
		}
		if opt.ImageMode == "with" && !c.HasImage() {
			continue
		}
		if opt.ImageMode == "without" && c.HasImage() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CountByZone tallies records per zone.
func CountByZone(cards []Card) map[deck.Zone]int {
	out := map[deck.Zone]int{}
	for _, c := range cards {
		out[c.Zone]++
	}
	return out
}
