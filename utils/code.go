package utils

import (
	"crypto/rand"
	"math/big"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode returns a random coupon-code suffix of n characters drawn
// from uppercase letters and digits.
func RandomCode(n int) string {
	code := make([]byte, n)
	max := big.NewInt(int64(len(codeCharset)))
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		code[i] = codeCharset[idx.Int64()]
	}
	return string(code)
}
