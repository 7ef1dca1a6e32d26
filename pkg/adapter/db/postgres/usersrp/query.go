// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Names of the unique constraints of the users table.
const (
	UsernameKey = "users_username_key"
	EmailKey    = "users_email_key"
)

type gUser struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         string
	CreatedAt    time.Time
}

func (gu *gUser) TableName() string {
	return "users"
}

type gPassenger struct {
	UserID                 uuid.UUID `gorm:"primaryKey;type:uuid"`
	PreferredPaymentMethod string
	Rating                 float64
	TotalRides             int
	Verified               bool
}

func (gp *gPassenger) TableName() string {
	return "passengers"
}

type gDriver struct {
	UserID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	LicenseNumber string
	VehicleModel  string
	VehicleColor  string
	VehiclePlate  string
	MaxPassengers int
	Rating        float64
	TotalTrips    int
	Verified      bool
	Available     bool
}

func (gd *gDriver) TableName() string {
	return "drivers"
}

type gAdmin struct {
	UserID      uuid.UUID `gorm:"primaryKey;type:uuid"`
	AdminLevel  string
	Permissions datatypes.JSON
}

func (ga *gAdmin) TableName() string {
	return "admins"
}

func (gu *gUser) Model(p model.Profile) *model.User {
	return &model.User{
		ID:           gu.ID,
		Username:     gu.Username,
		Email:        gu.Email,
		PasswordHash: gu.PasswordHash,
		FirstName:    gu.FirstName,
		LastName:     gu.LastName,
		Phone:        gu.Phone,
		CreatedAt:    gu.CreatedAt,
		Profile:      p,
	}
}

// Create inserts the u user and its role specific profile row.
// Violation of the username or email uniqueness is reported as a
// conflict error. The u.CreatedAt is filled by this function.
func Create[Q postgres.Queryer](
	ctx context.Context, q Q, u *model.User,
) error {
	if u.Profile == nil {
		return errors.New("user has no profile")
	}
	role := u.Role()
	if err := role.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	gdb := q.GORM(ctx)
	gu := &gUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		Role:         role.String(),
	}
	if err := gdb.Create(gu).Error; err != nil {
		return translate(err)
	}
	u.CreatedAt = gu.CreatedAt
	var row any
	switch p := u.Profile.(type) {
	case *model.PassengerProfile:
		row = &gPassenger{
			UserID:                 u.ID,
			PreferredPaymentMethod: p.PreferredPaymentMethod,
			Rating:                 p.Rating,
			TotalRides:             p.TotalRides,
			Verified:               p.Verified,
		}
	case *model.DriverProfile:
		row = &gDriver{
			UserID:        u.ID,
			LicenseNumber: p.LicenseNumber,
			VehicleModel:  p.VehicleModel,
			VehicleColor:  p.VehicleColor,
			VehiclePlate:  p.VehiclePlate,
			MaxPassengers: p.MaxPassengers,
			Rating:        p.Rating,
			TotalTrips:    p.TotalTrips,
			Verified:      p.Verified,
			Available:     p.Available,
		}
	case *model.AdminProfile:
		perms := p.Permissions
		if perms == nil {
			perms = []string{}
		}
		b, err := json.Marshal(perms)
		if err != nil {
			return fmt.Errorf("marshalling permissions: %w", err)
		}
		row = &gAdmin{
			UserID:      u.ID,
			AdminLevel:  p.Level,
			Permissions: datatypes.JSON(b),
		}
	}
	if err := gdb.Create(row).Error; err != nil {
		return fmt.Errorf("inserting %s profile: %w", role, err)
	}
	return nil
}

func translate(err error) error {
	name, code, ok := postgres.Constraint(err)
	if !ok || code != postgres.UniqueViolation {
		return fmt.Errorf("inserting user: %w", err)
	}
	switch name {
	case UsernameKey:
		return cerr.Conflict(errors.New("username is already taken"))
	case EmailKey:
		return cerr.Conflict(errors.New("email is already in use"))
	}
	return postgres.TranslateError(err, "user")
}

// Get finds the id user alongside its profile.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.User, error) {
	return take(ctx, q, fmt.Sprintf("user %s", id), "id = ?", id)
}

// GetByLogin finds a user whose username or email equals login.
func GetByLogin[Q postgres.Queryer](
	ctx context.Context, q Q, login string,
) (*model.User, error) {
	return take(
		ctx, q, fmt.Sprintf("user %q", login),
		"username = ? OR email = ?", login, login,
	)
}

func take[Q postgres.Queryer](
	ctx context.Context, q Q, what string, cond string, args ...any,
) (*model.User, error) {
	var gu gUser
	err := q.GORM(ctx).Where(cond, args...).Take(&gu).Error
	if err != nil {
		return nil, postgres.TranslateError(err, what)
	}
	us, err := withProfiles(ctx, q, []gUser{gu})
	if err != nil {
		return nil, err
	}
	return &us[0], nil
}

// List returns all users ordered by their usernames.
func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.User, error) {
	var gus []gUser
	if err := q.GORM(ctx).Order("username").Find(&gus).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return withProfiles(ctx, q, gus)
}

// ByIDs finds the users with the given ids and returns them as a map,
// skipping the missing ones.
func ByIDs[Q postgres.Queryer](
	ctx context.Context, q Q, ids []uuid.UUID,
) (map[uuid.UUID]*model.User, error) {
	m := make(map[uuid.UUID]*model.User, len(ids))
	if len(ids) == 0 {
		return m, nil
	}
	var gus []gUser
	if err := q.GORM(ctx).Where("id IN ?", ids).Find(&gus).Error; err != nil {
		return nil, fmt.Errorf("finding users: %w", err)
	}
	us, err := withProfiles(ctx, q, gus)
	if err != nil {
		return nil, err
	}
	for i := range us {
		m[us[i].ID] = &us[i]
	}
	return m, nil
}

// Taken reports if username or email are used by some existing user.
func Taken[Q postgres.Queryer](
	ctx context.Context, q Q, username, email string,
) (usernameTaken, emailTaken bool, err error) {
	row := q.GORM(ctx).Raw(`SELECT
EXISTS (SELECT 1 FROM users WHERE username = ?),
EXISTS (SELECT 1 FROM users WHERE email = ?)`, username, email).Row()
	if err = row.Scan(&usernameTaken, &emailTaken); err != nil {
		err = fmt.Errorf("checking username and email: %w", err)
	}
	return
}

func withProfiles[Q postgres.Queryer](
	ctx context.Context, q Q, gus []gUser,
) ([]model.User, error) {
	byRole := make(map[string][]uuid.UUID, 3)
	for _, gu := range gus {
		byRole[gu.Role] = append(byRole[gu.Role], gu.ID)
	}
	profiles := make(map[uuid.UUID]model.Profile, len(gus))
	gdb := q.GORM(ctx)
	if ids := byRole[model.RolePassenger.String()]; len(ids) > 0 {
		var gps []gPassenger
		if err := find(gdb, &gps, ids); err != nil {
			return nil, err
		}
		for _, gp := range gps {
			profiles[gp.UserID] = &model.PassengerProfile{
				PreferredPaymentMethod: gp.PreferredPaymentMethod,
				Rating:                 gp.Rating,
				TotalRides:             gp.TotalRides,
				Verified:               gp.Verified,
			}
		}
	}
	if ids := byRole[model.RoleDriver.String()]; len(ids) > 0 {
		var gds []gDriver
		if err := find(gdb, &gds, ids); err != nil {
			return nil, err
		}
		for _, gd := range gds {
			profiles[gd.UserID] = &model.DriverProfile{
				LicenseNumber: gd.LicenseNumber,
				VehicleModel:  gd.VehicleModel,
				VehicleColor:  gd.VehicleColor,
				VehiclePlate:  gd.VehiclePlate,
				MaxPassengers: gd.MaxPassengers,
				Rating:        gd.Rating,
				TotalTrips:    gd.TotalTrips,
				Verified:      gd.Verified,
				Available:     gd.Available,
			}
		}
	}
	if ids := byRole[model.RoleAdmin.String()]; len(ids) > 0 {
		var gas []gAdmin
		if err := find(gdb, &gas, ids); err != nil {
			return nil, err
		}
		for _, ga := range gas {
			ap := &model.AdminProfile{Level: ga.AdminLevel}
			if len(ga.Permissions) > 0 {
				err := json.Unmarshal(ga.Permissions, &ap.Permissions)
				if err != nil {
					return nil, fmt.Errorf(
						"parsing permissions of %s: %w", ga.UserID, err,
					)
				}
			}
			profiles[ga.UserID] = ap
		}
	}
	us := make([]model.User, 0, len(gus))
	for i := range gus {
		p, ok := profiles[gus[i].ID]
		if !ok {
			return nil, fmt.Errorf(
				"user %s has no %s profile", gus[i].ID, gus[i].Role,
			)
		}
		us = append(us, *gus[i].Model(p))
	}
	return us, nil
}

func find(gdb *gorm.DB, dst any, ids []uuid.UUID) error {
	if err := gdb.Where("user_id IN ?", ids).Find(dst).Error; err != nil {
		return fmt.Errorf("finding profiles: %w", err)
	}
	return nil
}
