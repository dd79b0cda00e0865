package mongo

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is stored as Decimal128 so sums and comparisons inside Mongo stay exact.

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", v, err)
	}
	return d, nil
}
