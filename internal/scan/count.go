package scan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/youruser/duelsim/internal/deck"
)

// Tried in order; the first pattern that matches decides the count.
var countPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[:：]\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:枚|cards?|张|장|개)`),
	regexp.MustCompile(`(\d+)`),
}

func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return '0' + (r - '０')
		}
		return r
	}, s)
}

// ParseCount reads a card count from label text. found reports whether any
// digits were present at all; count may still be out of range.
func ParseCount(text string) (count int, found bool) {
	text = normalizeDigits(text)
	for _, re := range countPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, true
		}
		return n, true
	}
	return 0, false
}

// Larger reads are usually merged digits.
func validCount(n int) bool {
	return n >= 1 && n <= deck.MaxCount
}
