package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with the bcrypt cost set in
// the auth configuration.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword reports a mismatch between a stored hash and a login
// attempt as an error.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
