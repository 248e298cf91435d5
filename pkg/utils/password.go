package utils

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost is the 2^12 bcrypt work factor.
const DefaultPasswordCost = 12

func HashPassword(pw string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultPasswordCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
