package rstr

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns a URL safe string built from n random bytes.
// Panics if the system random source fails.
func RandomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
