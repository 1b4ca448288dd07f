package main

import "golang.org/x/crypto/bcrypt"

// passwordHasher wraps bcrypt with a fixed work factor. The cost travels
// with the value so tests can run at bcrypt.MinCost.
type passwordHasher struct {
	cost int
}

func newPasswordHasher(cost int) passwordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return passwordHasher{cost: cost}
}

func (h passwordHasher) hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

func (h passwordHasher) verify(plaintext string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}
