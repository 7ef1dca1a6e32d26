// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/model"
)

// Users is the identity store repository, keeping the common user
// records and their role specific profiles.
type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}

type UsersConnQueryer interface {
	UsersQueryer
}

type UsersTxQueryer interface {
	UsersQueryer

	// Create inserts u and its profile. The u.ID must be set by the
	// caller. A username or email uniqueness violation is reported as
	// a conflict error.
	Create(ctx context.Context, u *model.User) error
}

type UsersQueryer interface {
	// Get finds a user with its profile by ID.
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByLogin finds a user by its username or email.
	GetByLogin(ctx context.Context, login string) (*model.User, error)

	// List returns all users, ordered by username.
	List(ctx context.Context) ([]model.User, error)

	// Taken reports if the given username and email are already used.
	Taken(
		ctx context.Context, username, email string,
	) (usernameTaken, emailTaken bool, err error)
}
