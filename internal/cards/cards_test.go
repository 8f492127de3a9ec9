package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/duelsim/internal/deck"
	"github.com/youruser/duelsim/internal/slicer"
)

func TestFromExtraction(t *testing.T) {
	ext := &slicer.Extraction{Cards: []slicer.Card{
		{Zone: deck.ZoneMain, Index: 0, ID: "a", ImageURL: "data:image/png;base64,AA=="},
		{Zone: deck.ZoneExtra, Index: 0, ID: "b"},
	}}
	out := FromExtraction(ext)
	require.Len(t, out, 2)
	assert.Equal(t, Card{ID: "a", Zone: deck.ZoneMain, Index: 0, ImageURL: "data:image/png;base64,AA=="}, out[0])
	assert.False(t, out[1].HasImage())
}

func TestFromRelinkOrdersByZoneAndIndex(t *testing.T) {
	cfg := &deck.Configuration{CardWidth: 59, CardHeight: 86}
	cfg.SetSection(deck.NewSection(deck.ZoneMain, 3, 0))
	cfg.SetSection(deck.NewSection(deck.ZoneSide, 2, 500))

	m := deck.NewIDMapping()
	m.Set(deck.ZoneSide, 1, "s1")
	m.Set(deck.ZoneMain, 2, "m2")
	m.Set(deck.ZoneMain, 0, "m0")

	out := FromRelink(cfg, m, map[string]string{"m0": "img0", "s1": "imgS"})
	require.Len(t, out, 3)
	assert.Equal(t, []string{"m0", "m2", "s1"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, "img0", out[0].ImageURL)
	assert.Empty(t, out[1].ImageURL)
	assert.Equal(t, deck.ZoneSide, out[2].Zone)
}

func TestFilter(t *testing.T) {
	all := []Card{
		{ID: "1", Zone: deck.ZoneMain, ImageURL: "x"},
		{ID: "2", Zone: deck.ZoneMain},
		{ID: "3", Zone: deck.ZoneExtra, ImageURL: "y"},
		{ID: "4", Zone: deck.ZoneSide, ImageURL: "z"},
	}
	assert.Len(t, Filter(all, FilterOptions{}), 4)
	assert.Len(t, Filter(all, FilterOptions{Zones: []deck.Zone{deck.ZoneMain}}), 2)
	assert.Len(t, Filter(all, FilterOptions{ImageMode: "with"}), 3)

	missing := Filter(all, FilterOptions{Zones: []deck.Zone{deck.ZoneMain}, ImageMode: "without"})
	require.Len(t, missing, 1)
	assert.Equal(t, "2", missing[0].ID)

	counts := CountByZone(all)
	assert.Equal(t, 2, counts[deck.ZoneMain])
	assert.Equal(t, 1, counts[deck.ZoneSide])
}
