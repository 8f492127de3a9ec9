// Package deck holds the data contracts shared by the deck-image pipeline:
// detected sections, grid geometry, and the persisted card-id mapping.
package deck

import "fmt"

// CardsPerRow is fixed for every deck export image.
const CardsPerRow = 10

// CardAspect is card height over card width (59:86).
const CardAspect = 86.0 / 59.0

// MaxCount bounds a plausible section size.
const MaxCount = 100

type Zone string

const (
	ZoneMain  Zone = "main"
	ZoneExtra Zone = "extra"
	ZoneSide  Zone = "side"
)

// Zones returns every zone in cascade order.
func Zones() []Zone {
	return []Zone{ZoneMain, ZoneExtra, ZoneSide}
}

func ParseZone(s string) (Zone, error) {
	switch z := Zone(s); z {
	case ZoneMain, ZoneExtra, ZoneSide:
		return z, nil
	}
	return "", fmt.Errorf("unknown zone %q", s)
}

// Section is one detected zone of a deck export image.
type Section struct {
	Type      Zone `json:"type"`
	Count     int  `json:"count"`
	YPosition int  `json:"yPosition"`
	Rows      int  `json:"rows"`
}

func NewSection(zone Zone, count, y int) Section {
	return Section{
		Type:      zone,
		Count:     count,
		YPosition: y,
		Rows:      (count + CardsPerRow - 1) / CardsPerRow,
	}
}

// Configuration is the grid geometry of one analyzed image. Absent sections
// are nil; a section is never present with a zero count.
type Configuration struct {
	MainDeck  *Section `json:"mainDeck"`
	ExtraDeck *Section `json:"extraDeck"`
	SideDeck  *Section `json:"sideDeck"`

	CardWidth  float64 `json:"cardWidth"`
	CardHeight float64 `json:"cardHeight"`
	CardGap    float64 `json:"cardGap"`
	LeftMargin float64 `json:"leftMargin"`

	// GridOffset is the distance from a section's label Y to its first card row.
	GridOffset float64 `json:"gridOffset"`
	// SliceMargin widens each card window horizontally on both sides.
	SliceMargin float64 `json:"sliceMargin"`
}

// Section returns the section for zone, or nil when absent.
func (c *Configuration) Section(zone Zone) *Section {
	switch zone {
	case ZoneMain:
		return c.MainDeck
	case ZoneExtra:
		return c.ExtraDeck
	case ZoneSide:
		return c.SideDeck
	}
	return nil
}

// SetSection stores s under its zone. A zero count clears the zone.
func (c *Configuration) SetSection(s Section) {
	var p *Section
	if s.Count > 0 {
		cp := s
		p = &cp
	}
	switch s.Type {
	case ZoneMain:
		c.MainDeck = p
	case ZoneExtra:
		c.ExtraDeck = p
	case ZoneSide:
		c.SideDeck = p
	}
}

// Sections returns the present sections in cascade order.
func (c *Configuration) Sections() []Section {
	var out []Section
	for _, z := range Zones() {
		if s := c.Section(z); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func (c *Configuration) TotalCards() int {
	n := 0
	for _, s := range c.Sections() {
		n += s.Count
	}
	return n
}

// Validate reports whether the configuration can drive slicing.
func (c *Configuration) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is nil")
	}
	if len(c.Sections()) == 0 {
		return fmt.Errorf("configuration has no sections")
	}
	for _, s := range c.Sections() {
		if s.Count < 1 || s.Count > MaxCount {
			return fmt.Errorf("%s section has count %d, want 1..%d", s.Type, s.Count, MaxCount)
		}
		if want := (s.Count + CardsPerRow - 1) / CardsPerRow; s.Rows != want {
			return fmt.Errorf("%s section has %d rows, want %d", s.Type, s.Rows, want)
		}
	}
	if c.CardWidth <= 0 || c.CardHeight <= 0 {
		return fmt.Errorf("card size %.2fx%.2f is not positive", c.CardWidth, c.CardHeight)
	}
	return nil
}
