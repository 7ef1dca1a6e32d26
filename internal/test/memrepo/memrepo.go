// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo is an internal helper for the use cases unit tests.
// It provides an in-memory Store which implements the repo.Pool and
// can provide all repositories which are needed by the use cases, so
// they may be tested without a real PostgreSQL DBMS server.
//
// Transactions are serialized by a mutex and are rolled back by
// restoring a snapshot of the whole store, so the use cases can be
// tested for their atomicity too.
package memrepo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

var errRawSQL = errors.New("raw sql is not supported by memrepo")

type state struct {
	users        map[uuid.UUID]model.User
	trips        map[uuid.UUID]model.Trip
	points       map[uuid.UUID][]model.GeoPoint
	tripOptions  map[uuid.UUID][]uuid.UUID
	tripCities   map[uuid.UUID][]uuid.UUID
	reservations map[uuid.UUID]model.Reservation
	cities       []model.City
	options      []model.Option
	settings     []byte
}

func (st *state) clone() *state {
	return &state{
		users:        maps.Clone(st.users),
		trips:        maps.Clone(st.trips),
		points:       maps.Clone(st.points),
		tripOptions:  maps.Clone(st.tripOptions),
		tripCities:   maps.Clone(st.tripCities),
		reservations: maps.Clone(st.reservations),
		cities:       st.cities,
		options:      st.options,
		settings:     st.settings,
	}
}

// Store is an in-memory database. Its zero value is not usable and
// New must be used for its instantiation.
type Store struct {
	mu sync.Mutex
	st *state
}

// New creates an empty Store.
func New() *Store {
	return &Store{st: &state{
		users:        map[uuid.UUID]model.User{},
		trips:        map[uuid.UUID]model.Trip{},
		points:       map[uuid.UUID][]model.GeoPoint{},
		tripOptions:  map[uuid.UUID][]uuid.UUID{},
		tripCities:   map[uuid.UUID][]uuid.UUID{},
		reservations: map[uuid.UUID]model.Reservation{},
	}}
}

// Conn calls handler with a connection to s.
func (s *Store) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, &Conn{s: s})
}

// Close implements the repo.Pool interface. It does nothing.
func (s *Store) Close() error {
	return nil
}

// locked runs f while holding the store mutex.
func (s *Store) locked(f func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.st)
}

// AddUser puts u in the store, overwriting any user with the same ID.
func (s *Store) AddUser(u model.User) {
	s.locked(func(st *state) { st.users[u.ID] = u })
}

// AddTrip puts t in the store, overwriting any trip with the same ID.
func (s *Store) AddTrip(t model.Trip) {
	s.locked(func(st *state) { st.trips[t.ID] = t })
}

// AddReservation puts r in the store.
func (s *Store) AddReservation(r model.Reservation) {
	s.locked(func(st *state) { st.reservations[r.ID] = r })
}

// SetReferenceData replaces the stored cities and options.
func (s *Store) SetReferenceData(cities []model.City, opts []model.Option) {
	s.locked(func(st *state) {
		st.cities = cities
		st.options = opts
	})
}

// Trip returns the stored id trip and reports if it was found.
func (s *Store) Trip(id uuid.UUID) (t model.Trip, ok bool) {
	s.locked(func(st *state) { t, ok = st.trips[id] })
	return
}

// Reservation returns the stored id reservation and reports if it was
// found.
func (s *Store) Reservation(id uuid.UUID) (r model.Reservation, ok bool) {
	s.locked(func(st *state) { r, ok = st.reservations[id] })
	return
}

// Points returns the stored geo-points of the id trip.
func (s *Store) Points(id uuid.UUID) (pts []model.GeoPoint) {
	s.locked(func(st *state) { pts = st.points[id] })
	return
}

// Conn is a connection to a Store. It implements the repo.Conn.
type Conn struct {
	s *Store
}

// Tx runs handler in a transaction. The transaction holds the store
// mutex until it is committed or rolled back.
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) (err error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	snapshot := c.s.st.clone()
	defer func() {
		if r := recover(); r != nil {
			c.s.st = snapshot
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			c.s.st = snapshot
			err = fmt.Errorf("handler: %w", err)
		}
	}()
	return handler(ctx, &Tx{s: c.s})
}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errRawSQL
}

func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errRawSQL
}

func (c *Conn) IsConn() {
}

// Tx is a transaction on a Store. It implements the repo.Tx.
type Tx struct {
	s *Store
}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errRawSQL
}

func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errRawSQL
}

func (tx *Tx) IsTx() {
}

// access runs queries either on a connection (locking the store per
// query) or in a transaction (which already holds the lock).
type access struct {
	s  *Store
	tx bool
}

func (a access) run(f func(st *state) error) error {
	if a.tx {
		return f(a.s.st)
	}
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return f(a.s.st)
}

func connAccess(c repo.Conn) access {
	return access{s: c.(*Conn).s}
}

func txAccess(tx repo.Tx) access {
	return access{s: tx.(*Tx).s, tx: true}
}

// Notifier records the published notifications. It implements the
// repo.Notifier interface. If Err is set, Notify records nothing and
// returns it.
type Notifier struct {
	mu  sync.Mutex
	ns  []model.Notification
	Err error
}

// Notify records n.
func (n *Notifier) Notify(_ context.Context, x model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.ns = append(n.ns, x)
	return nil
}

// Notifications returns a copy of the recorded notifications.
func (n *Notifier) Notifications() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification(nil), n.ns...)
}
