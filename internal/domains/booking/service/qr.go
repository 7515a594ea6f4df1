package service

import "crypto/subtle"

// MatchQRToken reports whether the presented token equals the stored one. The
// comparison is exact, case-sensitive and constant time.
func MatchQRToken(stored, presented string) bool {
	if stored == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
