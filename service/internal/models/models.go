// internal/models/models.go
package models

import "github.com/google/uuid"

// Card is the presentation form of an engine card.
type Card struct {
	Rank   string `json:"rank"`             // "4".."3", e.g. "Q", "A"
	Suit   string `json:"suit"`             // "ouros", "espadas", "copas" or "paus"
	Value  int    `json:"value"`            // strength in the current hand; higher wins
	Hidden bool   `json:"hidden,omitempty"` // played face down
}

// Player is a seat at a Truco table.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	// Bot marks a seat driven by the opponent policy.
	Bot bool `json:"bot"`
}

// NewPlayer returns a player with a fresh random ID.
func NewPlayer(name string, bot bool) *Player {
	return &Player{ID: uuid.New(), Name: name, Bot: bot}
}
