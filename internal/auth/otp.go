package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// generateCode draws a uniform random 6-digit code in [100000, 999999].
// The range matches the issued format exactly, so codes never carry a
// leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}
