// Package auth provides password hashing and bearer-token issuance.
// It is the only package that knows about bcrypt and JWT internals;
// the rest of the core consumes hashed strings and domain.Actor values.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of password using the default cost.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
