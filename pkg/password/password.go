// Package password wraps bcrypt for the credentials stored in the users table.
package password

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns a bcrypt hash using the given cost (bcrypt.DefaultCost when <= 0).
func Hash(plain string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a stored hash with a plain password. Hashes written by PHP
// carry the $2y$ prefix, which is the same algorithm as $2a$.
func Verify(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(normalize(hash)), []byte(plain)) == nil
}

func normalize(hash string) string {
	if strings.HasPrefix(hash, "$2y$") {
		return "$2a$" + hash[len("$2y$"):]
	}
	return hash
}
