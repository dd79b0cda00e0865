package workflow

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// ReferenceSource produces payment references for approved claims.
type ReferenceSource interface {
	Next(at time.Time) string
}

// RandomReferences generates references in the format PAY-yyyyMMddHHmmss-NNNN,
// with NNNN drawn uniformly from [1000, 9998]. Uniqueness is best-effort.
type RandomReferences struct{}

func (RandomReferences) Next(at time.Time) string {
	return fmt.Sprintf("PAY-%s-%04d", at.UTC().Format("20060102150405"), randomSuffix())
}

// suffixSpan keeps the suffix in [1000, 9998]; 9999 is never issued.
const suffixSpan = 8999

func randomSuffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(suffixSpan))
	if err != nil {
		// fallback: use current nanoseconds
		return 1000 + time.Now().UnixNano()%suffixSpan
	}
	return 1000 + n.Int64()
}
