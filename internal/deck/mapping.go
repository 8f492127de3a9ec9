package deck

import (
	"fmt"
	"strconv"
)

// IDMapping links zone-relative indices to card identifiers. Keys are
// base-10 indices so the JSON form is {"mainDeck": {"0": "<id>"}, ...}.
type IDMapping struct {
	MainDeck  map[string]string `json:"mainDeck"`
	ExtraDeck map[string]string `json:"extraDeck"`
	SideDeck  map[string]string `json:"sideDeck,omitempty"`
}

func NewIDMapping() *IDMapping {
	return &IDMapping{
		MainDeck:  map[string]string{},
		ExtraDeck: map[string]string{},
	}
}

func (m *IDMapping) zone(z Zone, create bool) map[string]string {
	switch z {
	case ZoneMain:
		if m.MainDeck == nil && create {
			m.MainDeck = map[string]string{}
		}
		return m.MainDeck
	case ZoneExtra:
		if m.ExtraDeck == nil && create {
			m.ExtraDeck = map[string]string{}
		}
		return m.ExtraDeck
	case ZoneSide:
		if m.SideDeck == nil && create {
			m.SideDeck = map[string]string{}
		}
		return m.SideDeck
	}
	return nil
}

func (m *IDMapping) Set(z Zone, index int, id string) {
	if zm := m.zone(z, true); zm != nil {
		zm[strconv.Itoa(index)] = id
	}
}

func (m *IDMapping) Lookup(z Zone, index int) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.zone(z, false)[strconv.Itoa(index)]
	return id, ok && id != ""
}

// Len counts mapped cards across every zone.
func (m *IDMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.MainDeck) + len(m.ExtraDeck) + len(m.SideDeck)
}

// Validate checks that every key is a dense-range index of a present section.
func (m *IDMapping) Validate(cfg *Configuration) error {
	for _, z := range Zones() {
		entries := m.zone(z, false)
		if len(entries) == 0 {
			continue
		}
		s := cfg.Section(z)
		if s == nil {
			return fmt.Errorf("mapping has %d %s cards but the section is absent", len(entries), z)
		}
		for key := range entries {
			i, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("%s mapping key %q is not an index", z, key)
			}
			if i < 0 || i >= s.Count {
				return fmt.Errorf("%s mapping index %d out of range [0,%d)", z, i, s.Count)
			}
		}
	}
	return nil
}
