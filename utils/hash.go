package utils

import (
	"crypto/rand"
	"math/big"
)

const hashAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FormHashLength is the length of public form and link tokens.
const FormHashLength = 16

// RandomHash returns a random alphanumeric token of length n.
func RandomHash(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(hashAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = hashAlphabet[idx.Int64()]
	}
	return string(b), nil
}
