package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher derives and checks salted bcrypt hashes.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher constructs a hasher with the default bcrypt cost.
func NewPasswordHasher() PasswordHasher {
	return PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash derives a salted hash from the plaintext password. Two calls with the
// same input produce different hashes.
func (h PasswordHasher) Hash(plaintext string) (string, error) {
	cost := h.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A wrong password
// and a malformed stored hash both return false; no error crosses this
// boundary. Comparison time does not depend on where a mismatch occurs.
func (h PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
