package mongo

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func newRangeDocument(dr daterange.DateRange) rangeDocument {
	return rangeDocument{Start: dr.Start.UnixMilli(), End: dr.End.UnixMilli()}
}

func (d rangeDocument) toRange() daterange.DateRange {
	return daterange.DateRange{Start: timestampToTime(d.Start), End: timestampToTime(d.End)}
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// isConflict reports duplicate-key upserts and transaction write conflicts, the
// two ways a stale versioned save shows up.
func isConflict(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorLabel("TransientTransactionError")
}
