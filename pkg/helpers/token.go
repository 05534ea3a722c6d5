package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// KeyConfirmEmail is the Redis key mapping an email confirmation token to its account
func KeyConfirmEmail(token string) string {
	return "email:confirm:token:" + token
}

// GenToken returns n random bytes encoded as a URL-safe string
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
