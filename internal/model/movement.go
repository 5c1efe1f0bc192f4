package model

// MovementKind selects one of the stock movement tables.
type MovementKind string

// Movement kinds. The value is also the table name and the JSON envelope key.
const (
	KindShopping MovementKind = "shopping"
	KindScore    MovementKind = "score"
	KindOutput   MovementKind = "output"
)

// MovementKinds lists every movement kind in display order.
var MovementKinds = []MovementKind{KindShopping, KindScore, KindOutput}

// Valid reports whether k names a known movement table.
func (k MovementKind) Valid() bool {
	switch k {
	case KindShopping, KindScore, KindOutput:
		return true
	}
	return false
}

// MinAmount is the smallest amount accepted for the kind. A stock count
// may legitimately be zero; purchases and withdrawals may not.
func (k MovementKind) MinAmount() int {
	if k == KindScore {
		return 0
	}
	return 1
}

// Movement is a purchase (shopping), stock count (score) or withdrawal (output).
type Movement struct {
	ID      int64        `json:"id"`
	Kind    MovementKind `json:"-"`
	Amount  int          `json:"amount"`
	Product int64        `json:"product"`
	Creator
	Timestamps
}
