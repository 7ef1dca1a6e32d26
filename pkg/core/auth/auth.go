// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package auth exports the interfaces which the identity use cases
// need in order to keep user passwords and issue bearer tokens.
// The hashing and token formats are implementation details of the
// adapter layer.
package auth

import (
	"errors"
	"time"

	"github.com/momeni/carpool/pkg/core/model"
)

// ErrMismatchedPassword is returned by PasswordHasher.Verify when the
// given password does not match the stored hash.
var ErrMismatchedPassword = errors.New("password does not match")

// PasswordHasher hashes the user passwords for persistence and
// verifies them later.
type PasswordHasher interface {
	// Hash computes a self-describing hash string of pass, with a
	// random salt, which can be stored and verified later.
	Hash(pass string) (string, error)

	// Verify checks pass against the hashed string. It returns
	// ErrMismatchedPassword if they do not match, or another error
	// if hashed is malformed.
	Verify(hashed, pass string) error
}

// TokenIssuer issues bearer tokens for authenticated callers and
// parses them back.
type TokenIssuer interface {
	// Issue creates a token for c which expires at the returned time.
	Issue(c model.Caller) (token string, expiresAt time.Time, err error)

	// Parse validates the token signature and expiration time and
	// returns its caller.
	Parse(token string) (model.Caller, error)
}
