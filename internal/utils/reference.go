package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OrderNumberPrefix    = "PED"
	TrackingNumberPrefix = "ENV"
)

// GenerateReference returns prefix-XXXXXXXX where X are the first eight
// upper-case hex digits of a random UUID.
func GenerateReference(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + strings.ToUpper(hex[:8])
}

// GenerateNumericCode returns a zero-padded random decimal code of n digits.
func GenerateNumericCode(n int) string {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		// fallback: time-based entropy
		v = new(big.Int).Mod(big.NewInt(time.Now().UnixNano()), max)
	}
	return fmt.Sprintf("%0*d", n, v.Int64())
}
