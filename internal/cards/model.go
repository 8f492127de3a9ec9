package cards

import "github.com/youruser/duelsim/internal/deck"

// Card is the game-card record handed to the board loader.
type Card struct {
	ID       string    `json:"id"`
	Zone     deck.Zone `json:"zone"`
	Index    int       `json:"index"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

func (c Card) HasImage() bool { return c.ImageURL != "" }
