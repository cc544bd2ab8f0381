package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

// GenerateSigningToken returns a 256-bit random bearer token for public
// contract access. The token carries no payload or expiry: it is a pure
// capability, neutralized at the lifecycle layer once the contract is signed.
func GenerateSigningToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}

// VerifySigningToken reports whether the supplied token matches the stored
// one. A missing token on either side never authorizes. The comparison is
// constant time to avoid leaking the stored token through timing.
func VerifySigningToken(storedToken, suppliedToken string) bool {
	if storedToken == "" || suppliedToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(storedToken), []byte(suppliedToken)) == 1
}
