package model

import "time"

// Product is a stocked article with a minimum threshold and a recorded total.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AmountMin   int    `json:"amount_min"`
	AmountTotal int    `json:"amount_total"`
	ImageMime   string `json:"image_mime,omitempty"`
	Creator
	Timestamps
}

// BelowMinimum reports whether the recorded total is under the minimum threshold.
func (p *Product) BelowMinimum() bool {
	return p.AmountTotal < p.AmountMin
}

// StockBalance reconciles a product's recorded total against its movements.
// It is a read-only report; nothing keeps AmountTotal in sync.
type StockBalance struct {
	Product     int64      `json:"product"`
	Purchased   int        `json:"purchased"`
	Withdrawn   int        `json:"withdrawn"`
	Expected    int        `json:"expected"`
	LastCount   *int       `json:"last_count"`
	LastCountAt *time.Time `json:"last_count_at"`
	AmountTotal int        `json:"amount_total"`
	Consistent  bool       `json:"consistent"`
}
