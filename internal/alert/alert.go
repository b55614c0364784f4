package alert

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction distinguishes buy and sell triggers.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Alert is one triggered threshold, constructed fresh each evaluation cycle.
// The target is captured at trigger time since settings may change later.
type Alert struct {
	Direction Direction
	Stage     int
	Target    decimal.Decimal
	Rate      decimal.Decimal
	At        time.Time
}
