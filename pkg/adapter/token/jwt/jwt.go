// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwt issues and parses the HS256 signed bearer tokens.
// The subject claim holds the user ID and a role claim holds the
// upper-case role name of the caller.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/model"
)

// MinSecretLen is the minimum length of the signing secret in bytes.
const MinSecretLen = 32

// Claims are the token claims.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer implements the auth.TokenIssuer interface.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// New instantiates an Issuer which signs tokens with secret and makes
// them valid for ttl. The issuer string is put in the iss claim and is
// checked while parsing tokens.
func New(secret []byte, ttl time.Duration, issuer string) (*Issuer, error) {
	switch {
	case len(secret) < MinSecretLen:
		return nil, fmt.Errorf(
			"secret must have at least %d bytes", MinSecretLen,
		)
	case ttl <= 0:
		return nil, fmt.Errorf("ttl (%v) is not positive", ttl)
	}
	return &Issuer{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for c.
func (i *Issuer) Issue(c model.Caller) (string, time.Time, error) {
	if err := c.Role.Validate(); err != nil {
		return "", time.Time{}, err
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := &Claims{
		Role: c.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return s, exp.Truncate(time.Second), nil
}

// Parse validates the token signature, issuer, and expiration time,
// and returns the caller which the token was issued for.
func (i *Issuer) Parse(token string) (model.Caller, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	tok, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		opts...,
	)
	if err != nil {
		return model.Caller{}, err
	}
	if !tok.Valid {
		return model.Caller{}, jwt.ErrSignatureInvalid
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Caller{}, fmt.Errorf("parsing subject: %w", err)
	}
	r, err := model.ParseRole(claims.Role)
	if err != nil {
		return model.Caller{}, fmt.Errorf("parsing role: %w", err)
	}
	if id == uuid.Nil {
		return model.Caller{}, errors.New("nil subject")
	}
	return model.Caller{UserID: id, Role: r}, nil
}
