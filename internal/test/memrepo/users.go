package memrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Users is the in-memory users repository.
type Users struct{}

func (Users) Conn(c repo.Conn) repo.UsersConnQueryer {
	return usersQueryer{connAccess(c)}
}

func (Users) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return usersQueryer{txAccess(tx)}
}

type usersQueryer struct {
	access
}

func (q usersQueryer) Get(
	_ context.Context, id uuid.UUID,
) (u *model.User, err error) {
	err = q.run(func(st *state) error {
		x, ok := st.users[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("user %s not found", id))
		}
		u = &x
		return nil
	})
	return
}

func (q usersQueryer) GetByLogin(
	_ context.Context, login string,
) (u *model.User, err error) {
	err = q.run(func(st *state) error {
		for _, x := range st.users {
			if x.Username == login || x.Email == login {
				u = &x
				return nil
			}
		}
		return cerr.NotFound(fmt.Errorf("user %q not found", login))
	})
	return
}

func (q usersQueryer) List(context.Context) (us []model.User, err error) {
	err = q.run(func(st *state) error {
		us = make([]model.User, 0, len(st.users))
		for _, u := range st.users {
			us = append(us, u)
		}
		return nil
	})
	sort.Slice(us, func(i, j int) bool {
		return us[i].Username < us[j].Username
	})
	return
}

func (q usersQueryer) Taken(
	_ context.Context, username, email string,
) (usernameTaken, emailTaken bool, err error) {
	err = q.run(func(st *state) error {
		for _, u := range st.users {
			usernameTaken = usernameTaken || u.Username == username
			emailTaken = emailTaken || u.Email == email
		}
		return nil
	})
	return
}

func (q usersQueryer) Create(_ context.Context, u *model.User) error {
	return q.run(func(st *state) error {
		for _, x := range st.users {
			if x.ID == u.ID || x.Username == u.Username ||
				x.Email == u.Email {
				return cerr.Conflict(errors.New("duplicate user"))
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}
