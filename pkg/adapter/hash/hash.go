// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package hash selects the end-users password hashing method. New
// passwords are hashed with the configured method, while the stored
// hashes are verified based on their own prefix, so changing the
// method does not lock out the existing users.
package hash

import (
	"fmt"
	"strings"

	"github.com/momeni/carpool/pkg/adapter/hash/bcrypt"
	"github.com/momeni/carpool/pkg/adapter/hash/scram"
	"github.com/momeni/carpool/pkg/core/auth"
)

// Supported method names.
const (
	SCRAMSHA256 = "scram-sha-256"
	SCRAMSHA1   = "scram-sha-1"
	BCrypt      = "bcrypt"
)

// Dispatcher implements auth.PasswordHasher.
type Dispatcher struct {
	method  string
	primary auth.PasswordHasher
	sha256  auth.PasswordHasher
	sha1    auth.PasswordHasher
	bcrypt  auth.PasswordHasher
}

// New creates a Dispatcher which hashes new passwords by the method
// hashing method. An empty method selects scram-sha-256.
func New(method string) (*Dispatcher, error) {
	bc, err := bcrypt.New(0)
	if err != nil {
		return nil, err
	}
	d := &Dispatcher{
		sha256: scram.SHA256().Passwords(),
		sha1:   scram.SHA1().Passwords(),
		bcrypt: bc,
	}
	if method == "" {
		method = SCRAMSHA256
	}
	d.method = method
	switch method {
	case SCRAMSHA256:
		d.primary = d.sha256
	case SCRAMSHA1:
		d.primary = d.sha1
	case BCrypt:
		d.primary = d.bcrypt
	default:
		return nil, fmt.Errorf("unsupported password hashing: %q", method)
	}
	return d, nil
}

// Method returns the name of the primary hashing method.
func (d *Dispatcher) Method() string {
	return d.method
}

// Hash hashes pass with the primary method.
func (d *Dispatcher) Hash(pass string) (string, error) {
	return d.primary.Hash(pass)
}

// Verify checks pass against hashed, using the method which produced
// the hashed string.
func (d *Dispatcher) Verify(hashed, pass string) error {
	switch {
	case strings.HasPrefix(hashed, "SCRAM-SHA-256$"):
		return d.sha256.Verify(hashed, pass)
	case strings.HasPrefix(hashed, "SCRAM-SHA-1$"):
		return d.sha1.Verify(hashed, pass)
	case strings.HasPrefix(hashed, "$2"):
		return d.bcrypt.Verify(hashed, pass)
	default:
		return fmt.Errorf("unknown password hash format")
	}
}
