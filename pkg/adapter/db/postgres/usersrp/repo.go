// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp provides a reification of the repo.Users interface,
// keeping the common identity attributes in the users table and the
// role specific profiles in the passengers, drivers, and admins tables.
package usersrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Repo represents the users repository.
type Repo struct {
}

// New instantiates a users Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.User, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) GetByLogin(
	ctx context.Context, login string,
) (*model.User, error) {
	return GetByLogin(ctx, cq.Conn, login)
}

func (cq connQueryer) List(ctx context.Context) ([]model.User, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Taken(
	ctx context.Context, username, email string,
) (bool, bool, error) {
	return Taken(ctx, cq.Conn, username, email)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic. The returned queryer may also create users.
func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, u *model.User) error {
	return Create(ctx, tq.Tx, u)
}

func (tq txQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.User, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) GetByLogin(
	ctx context.Context, login string,
) (*model.User, error) {
	return GetByLogin(ctx, tq.Tx, login)
}

func (tq txQueryer) List(ctx context.Context) ([]model.User, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Taken(
	ctx context.Context, username, email string,
) (bool, bool, error) {
	return Taken(ctx, tq.Tx, username, email)
}
