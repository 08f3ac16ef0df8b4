// Package randid generates short random identifiers.
package randid

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random string of n lowercase letters and digits.
func Generate(n int) string {
	if n <= 0 {
		return ""
	}

	buf := make([]byte, n)
	_, _ = rand.Read(buf) // never returns an error

	for i, b := range buf {
		// Slight modulo bias; these are display ids, not secrets.
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
