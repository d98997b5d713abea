// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing, stateless token issuance
// and the central permission table.
package auth

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for password hashes. High enough to
// resist offline brute force on leaked hashes.
const BcryptCost = 12

// TempPasswordLength is the length of generated temporary passwords.
const TempPasswordLength = 16

// tempPasswordAlphabet excludes visually ambiguous characters.
const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TempPassword generates a random temporary password of n characters.
// The plaintext is returned to the caller exactly once; only the hash
// is ever persisted.
func TempPassword(n int) (string, error) {
	if n <= 0 {
		n = TempPasswordLength
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating temporary password: %w", err)
	}
	for i, b := range buf {
		buf[i] = tempPasswordAlphabet[int(b)%len(tempPasswordAlphabet)]
	}
	return string(buf), nil
}
