package service

import (
	"math"

	"github.com/onedayhr/leadboard/internal/domain"
)

// basePrice is the per-position starting price in rubles.
const basePrice = 35000

var urgencyMultipliers = map[int]float64{
	12: 1.5,
	24: 1.0,
	48: 0.85,
}

var levelMultipliers = map[int]float64{
	1: 1.0,
	2: 2.14,
	3: 3.14,
}

var levelNames = map[int]string{
	1: "Junior/Middle",
	2: "Senior",
	3: "Lead/C-level",
}

// CalculateQuote computes the price offer from the three calculator inputs.
// Deterministic, no side effects; the result is rounded to the nearest
// integer.
func CalculateQuote(req *domain.QuoteRequest) (*domain.Quote, error) {
	if req.Positions < 1 || req.Positions > 10 {
		return nil, &domain.ErrValidation{Field: "positions", Message: "must be between 1 and 10"}
	}
	urgency, ok := urgencyMultipliers[req.UrgencyHours]
	if !ok {
		return nil, &domain.ErrValidation{Field: "urgency_hours", Message: "must be 12, 24 or 48"}
	}
	level, ok := levelMultipliers[req.Level]
	if !ok {
		return nil, &domain.ErrValidation{Field: "level", Message: "must be 1, 2 or 3"}
	}

	price := math.Round(basePrice * float64(req.Positions) * urgency * level)

	return &domain.Quote{
		Price:             int(price),
		BasePrice:         basePrice,
		Positions:         req.Positions,
		UrgencyHours:      req.UrgencyHours,
		UrgencyMultiplier: urgency,
		Level:             req.Level,
		LevelName:         levelNames[req.Level],
		LevelMultiplier:   level,
	}, nil
}
