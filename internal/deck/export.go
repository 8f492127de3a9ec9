package deck

import (
	"fmt"
	"strings"
)

var zoneTitles = map[Zone]string{
	ZoneMain:  "Main Deck",
	ZoneExtra: "Extra Deck",
	ZoneSide:  "Side Deck",
}

// Summary renders cfg as a short human-readable report.
func Summary(cfg *Configuration) string {
	lines := []string{}
	for _, z := range Zones() {
		s := cfg.Section(z)
		if s == nil {
			lines = append(lines, fmt.Sprintf("%s: -", zoneTitles[z]))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d cards (%d rows, label y=%d)", zoneTitles[z], s.Count, s.Rows, s.YPosition))
	}
	lines = append(lines, fmt.Sprintf("card %.1fx%.1f gap %.1f margin %.1f", cfg.CardWidth, cfg.CardHeight, cfg.CardGap, cfg.LeftMargin))
	return strings.Join(lines, "\n")
}
