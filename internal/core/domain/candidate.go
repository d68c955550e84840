package domain

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID           uuid.UUID `json:"id"`
	PollID       uuid.UUID `json:"poll_id"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Votes        int       `json:"votes"`
	RegisteredBy uuid.UUID `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type Symbol struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Symbols is the catalog offered to symbol-format polls.
var Symbols = []Symbol{
	{ID: "symbol-1", Name: "Star", Icon: "⭐"},
	{ID: "symbol-2", Name: "Heart", Icon: "❤️"},
	{ID: "symbol-3", Name: "Sun", Icon: "☀️"},
	{ID: "symbol-4", Name: "Moon", Icon: "🌙"},
	{ID: "symbol-5", Name: "Tree", Icon: "🌳"},
	{ID: "symbol-6", Name: "Flower", Icon: "🌸"},
	{ID: "symbol-7", Name: "Mountain", Icon: "⛰️"},
	{ID: "symbol-8", Name: "Car", Icon: "🚗"},
	{ID: "symbol-9", Name: "Plane", Icon: "✈️"},
	{ID: "symbol-10", Name: "Ship", Icon: "🚢"},
	{ID: "symbol-11", Name: "Book", Icon: "📚"},
	{ID: "symbol-12", Name: "Check", Icon: "✅"},
}

func ValidSymbol(id string) bool {
	for _, s := range Symbols {
		if s.ID == id {
			return true
		}
	}
	return false
}
