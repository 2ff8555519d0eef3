// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing, session token issuance and
// verification, and identity resolution from inbound tokens.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword creates a bcrypt hash of the password at the given cost.
// Cost 0 (or any value below bcrypt.MinCost) selects bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a bcrypt hash. Any mismatch or
// malformed hash yields false, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
