package auth

import "golang.org/x/crypto/bcrypt"

// GeneratePasswordHash hashes a plaintext password with a per-call salt.
// bcrypt.DefaultCost is 10, matching the work factor the API has always used.
func GeneratePasswordHash(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// ComparePasswordHash reports whether password maps to hashedPassword.
// A mismatch is a normal false result, not an error.
func ComparePasswordHash(hashedPassword []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password)) == nil
}
