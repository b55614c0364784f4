package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertRecord captures one dispatched alert for auditing.
type AlertRecord struct {
	ID        int64
	CheckedAt time.Time
	Direction string
	Stage     int
	Target    decimal.Decimal
	Rate      decimal.Decimal
	CreatedAt time.Time
}
