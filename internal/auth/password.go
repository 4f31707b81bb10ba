package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way salted hash of the plaintext.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the plaintext against the stored hash. Any error
// counts as a non-match; the caller learns nothing about the cause.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
