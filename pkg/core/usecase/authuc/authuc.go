// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authuc contains the identity UseCase which registers users,
// signs them in by issuing bearer tokens, and authenticates the
// callers of other use cases by parsing those tokens.
package authuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/auth"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Error messages of the sign-up uniqueness checks.
const (
	MsgUsernameTaken = "username is already taken"
	MsgEmailInUse    = "email is already in use"
)

// MinPasswordLen is the shortest acceptable password.
const MinPasswordLen = 6

var errBadCredentials = cerr.Authentication(
	errors.New("invalid username or password"),
)

// UseCase represents the identity use case.
type UseCase struct {
	pool    repo.Pool
	usersrp repo.Users
	hasher  auth.PasswordHasher
	issuer  auth.TokenIssuer
	now     func() time.Time
}

// New instantiates an identity use case. Passwords are hashed with
// the h hasher and tokens are issued and parsed by the ti issuer.
func New(
	p repo.Pool, users repo.Users,
	h auth.PasswordHasher, ti auth.TokenIssuer,
) *UseCase {
	return &UseCase{
		pool:    p,
		usersrp: users,
		hasher:  h,
		issuer:  ti,
		now:     time.Now,
	}
}

// SignUp use case registers a new user with the role specific profile
// which is described by req. Usernames and emails must be unique.
func (a *UseCase) SignUp(
	ctx context.Context, req *model.SignUpRequest,
) (u *model.User, err error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err = validateSignUp(req); err != nil {
		return nil, cerr.BadRequest(err)
	}
	p, err := req.Profile()
	if err != nil {
		return nil, cerr.BadRequest(err)
	}
	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u = &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		CreatedAt:    a.now(),
		Profile:      p,
	}
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := a.usersrp.Tx(tx)
			userTaken, emailTaken, err := q.Taken(ctx, u.Username, u.Email)
			switch {
			case err != nil:
				return fmt.Errorf("checking uniqueness: %w", err)
			case userTaken:
				return cerr.Conflict(errors.New(MsgUsernameTaken))
			case emailTaken:
				return cerr.Conflict(errors.New(MsgEmailInUse))
			}
			return q.Create(ctx, u)
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "user signed up",
		log.ID("id", u.ID), slog.String("role", u.Role().String()),
	)
	return u, nil
}

func validateSignUp(req *model.SignUpRequest) error {
	switch {
	case req.Username == "":
		return errors.New("username is required")
	case len(req.Password) < MinPasswordLen:
		return fmt.Errorf(
			"password must have at least %d characters", MinPasswordLen,
		)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("invalid email %q: %w", req.Email, err)
	}
	return req.Role.Validate()
}

// SignIn use case authenticates a user by its username or email and
// password, issuing a bearer token for it.
func (a *UseCase) SignIn(
	ctx context.Context, login, password string,
) (s *model.Session, err error) {
	var u *model.User
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = a.usersrp.Conn(c).GetByLogin(ctx, strings.TrimSpace(login))
		return err
	})
	var ce *cerr.Error
	switch {
	case errors.As(err, &ce) && ce.HTTPStatusCode == http.StatusNotFound:
		return nil, errBadCredentials
	case err != nil:
		return nil, fmt.Errorf("finding user: %w", err)
	}
	if err = a.hasher.Verify(u.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrMismatchedPassword) {
			log.Error(
				ctx, "cannot verify password hash",
				log.ID("id", u.ID), log.Err("err", err),
			)
		}
		return nil, errBadCredentials
	}
	token, exp, err := a.issuer.Issue(model.Caller{
		UserID: u.ID, Role: u.Role(),
	})
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &model.Session{
		Token:     token,
		Type:      "Bearer",
		ExpiresAt: exp,
		User:      u,
	}, nil
}

// Authenticate use case parses a bearer token and returns its caller.
// The caller user must still exist and have the same role.
func (a *UseCase) Authenticate(
	ctx context.Context, token string,
) (model.Caller, error) {
	c, err := a.issuer.Parse(token)
	if err != nil {
		return model.Caller{}, cerr.Authentication(
			fmt.Errorf("invalid token: %w", err),
		)
	}
	u, err := a.GetUser(ctx, c.UserID)
	var ce *cerr.Error
	switch {
	case errors.As(err, &ce) && ce.HTTPStatusCode == http.StatusNotFound:
		return model.Caller{}, cerr.Authentication(
			fmt.Errorf("unknown token subject: %w", err),
		)
	case err != nil:
		return model.Caller{}, fmt.Errorf("finding caller: %w", err)
	}
	if u.Role() != c.Role {
		return model.Caller{}, cerr.Authentication(
			errors.New("token role is outdated"),
		)
	}
	return c, nil
}

// GetUser use case finds the id user.
func (a *UseCase) GetUser(
	ctx context.Context, id uuid.UUID,
) (u *model.User, err error) {
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = a.usersrp.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// ListUsers use case lists all users ordered by their usernames.
// Only admins may list users.
func (a *UseCase) ListUsers(
	ctx context.Context, caller model.Caller,
) (us []model.User, err error) {
	if caller.Role != model.RoleAdmin {
		return nil, cerr.Authorization(
			errors.New("only admins may list users"),
		)
	}
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		us, err = a.usersrp.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		us = nil
	}
	return
}
