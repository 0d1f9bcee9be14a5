package domain

// QuoteRequest holds the three calculator inputs.
type QuoteRequest struct {
	Positions    int `json:"positions"`     // 1..10
	UrgencyHours int `json:"urgency_hours"` // 12 | 24 | 48
	Level        int `json:"level"`         // 1 Junior/Middle, 2 Senior, 3 Lead/C-level
}

// Quote is the computed price offer.
type Quote struct {
	Price             int     `json:"price"`
	BasePrice         int     `json:"base_price"`
	Positions         int     `json:"positions"`
	UrgencyHours      int     `json:"urgency_hours"`
	UrgencyMultiplier float64 `json:"urgency_multiplier"`
	Level             int     `json:"level"`
	LevelName         string  `json:"level_name"`
	LevelMultiplier   float64 `json:"level_multiplier"`
}
