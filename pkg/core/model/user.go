// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the tag of the User variants. Each role corresponds to one
// Profile implementation which holds the role specific attributes.
type Role int

// Valid values for the Role enum.
const (
	RoleInvalid Role = iota // zero value is invalid

	RolePassenger
	RoleDriver
	RoleAdmin
)

// ErrUnknownRole indicates that a given string may not be parsed as a
// known user role.
var ErrUnknownRole = errors.New("unknown role")

// RoleError indicates an invalid numeric role.
type RoleError int

// Error implements the error interface.
func (e RoleError) Error() string {
	return fmt.Sprintf("invalid role: %d", e)
}

// Validate returns nil if the r role is valid.
func (r Role) Validate() error {
	switch r {
	case RolePassenger, RoleDriver, RoleAdmin:
		return nil
	default:
		return RoleError(r)
	}
}

// String returns the upper-case role name. It panics for invalid roles.
func (r Role) String() string {
	switch r {
	case RolePassenger:
		return "PASSENGER"
	case RoleDriver:
		return "DRIVER"
	case RoleAdmin:
		return "ADMIN"
	default:
		panic(RoleError(r))
	}
}

// ParseRole parses the given string as a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "PASSENGER":
		return RolePassenger, nil
	case "DRIVER":
		return RoleDriver, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return RoleInvalid, ErrUnknownRole
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *Role) UnmarshalText(text []byte) (err error) {
	*r, err = ParseRole(string(text))
	return
}

// User is the common identity record of all roles. The Profile field
// carries the role specific payload and its dynamic type always
// matches the user role, i.e., *PassengerProfile, *DriverProfile, or
// *AdminProfile.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	Profile      Profile   `json:"profile"`
}

// Role returns the role tag of u. A user without a profile has the
// RoleInvalid role.
func (u *User) Role() Role {
	if u.Profile == nil {
		return RoleInvalid
	}
	return u.Profile.Role()
}

// FullName joins the first and last names of u.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Driver returns the driver profile of u, if u is a driver.
func (u *User) Driver() (*DriverProfile, bool) {
	d, ok := u.Profile.(*DriverProfile)
	return d, ok
}

// Passenger returns the passenger profile of u, if u is a passenger.
func (u *User) Passenger() (*PassengerProfile, bool) {
	p, ok := u.Profile.(*PassengerProfile)
	return p, ok
}

// Profile is the sealed interface of the role specific payloads.
type Profile interface {
	Role() Role
	isProfile()
}

// PassengerProfile keeps the passenger specific attributes.
type PassengerProfile struct {
	PreferredPaymentMethod string  `json:"preferred_payment_method,omitempty"`
	Rating                 float64 `json:"rating"`
	TotalRides             int     `json:"total_rides"`
	Verified               bool    `json:"is_verified"`
}

// Role returns RolePassenger.
func (*PassengerProfile) Role() Role { return RolePassenger }

func (*PassengerProfile) isProfile() {}

// DefaultMaxPassengers is used when a driver does not declare the
// capacity of their vehicle.
const DefaultMaxPassengers = 4

// DriverProfile keeps the driver specific attributes.
type DriverProfile struct {
	LicenseNumber string  `json:"license_number"`
	VehicleModel  string  `json:"vehicle_model"`
	VehicleColor  string  `json:"vehicle_color"`
	VehiclePlate  string  `json:"vehicle_plate"`
	MaxPassengers int     `json:"max_passengers"`
	Rating        float64 `json:"rating"`
	TotalTrips    int     `json:"total_trips"`
	Verified      bool    `json:"is_verified"`
	Available     bool    `json:"is_available"`
}

// Role returns RoleDriver.
func (*DriverProfile) Role() Role { return RoleDriver }

func (*DriverProfile) isProfile() {}

// DefaultAdminLevel is assigned to admins which are created without
// an explicit level.
const DefaultAdminLevel = "STANDARD"

// AdminProfile keeps the admin specific attributes.
type AdminProfile struct {
	Level       string   `json:"admin_level"`
	Permissions []string `json:"permissions"`
}

// Role returns RoleAdmin.
func (*AdminProfile) Role() Role { return RoleAdmin }

func (*AdminProfile) isProfile() {}

// Caller is the authenticated principal which invokes an operation.
// It is passed explicitly to all use cases which need to authorize
// their callers.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

// DriverSummary is the driver representation which is embedded in the
// trip views.
type DriverSummary struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone_number"`
	VehicleModel string    `json:"vehicle_model"`
	VehicleColor string    `json:"vehicle_color"`
	VehiclePlate string    `json:"vehicle_plate"`
	Rating       float64   `json:"rating"`
	TotalTrips   int       `json:"total_trips"`
	Verified     bool      `json:"is_verified"`
}

// NewDriverSummary summarizes u which must be a driver. For other
// roles, vehicle and rating fields are left empty.
func NewDriverSummary(u *User) *DriverSummary {
	ds := &DriverSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
	if d, ok := u.Driver(); ok {
		ds.VehicleModel = d.VehicleModel
		ds.VehicleColor = d.VehicleColor
		ds.VehiclePlate = d.VehiclePlate
		ds.Rating = d.Rating
		ds.TotalTrips = d.TotalTrips
		ds.Verified = d.Verified
	}
	return ds
}

// PassengerSummary is the passenger representation which is embedded
// in the reservation views.
type PassengerSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone_number"`
}

// NewPassengerSummary summarizes the u user.
func NewPassengerSummary(u *User) *PassengerSummary {
	return &PassengerSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// Session is the result of a successful sign-in, carrying a bearer
// token and the signed-in user.
type Session struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// SignUpRequest carries the registration attributes of a new user.
// The role specific fields are ignored for other roles.
type SignUpRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Password  string `json:"password" binding:"required,min=6,max=120"`
	FirstName string `json:"first_name" binding:"max=50"`
	LastName  string `json:"last_name" binding:"max=50"`
	Phone     string `json:"phone_number" binding:"max=20"`
	Role      Role   `json:"role" binding:"required"`

	// driver
	LicenseNumber string `json:"license_number"`
	VehicleModel  string `json:"vehicle_model"`
	VehicleColor  string `json:"vehicle_color"`
	VehiclePlate  string `json:"vehicle_plate"`
	MaxPassengers int    `json:"max_passengers"`

	// passenger
	PreferredPaymentMethod string `json:"preferred_payment_method"`

	// admin
	AdminLevel  string   `json:"admin_level"`
	Permissions []string `json:"permissions"`
}

// Profile builds the role specific profile of r. Drivers are created
// as available with the DefaultMaxPassengers capacity if r does not
// specify it, and admins get the DefaultAdminLevel level by default.
func (r *SignUpRequest) Profile() (Profile, error) {
	switch r.Role {
	case RolePassenger:
		return &PassengerProfile{
			PreferredPaymentMethod: r.PreferredPaymentMethod,
		}, nil
	case RoleDriver:
		maxp := r.MaxPassengers
		if maxp == 0 {
			maxp = DefaultMaxPassengers
		}
		if maxp < MinSeats || maxp > MaxSeats {
			return nil, fmt.Errorf(
				"max passengers (%d) is not in [%d, %d]",
				maxp, MinSeats, MaxSeats,
			)
		}
		return &DriverProfile{
			LicenseNumber: r.LicenseNumber,
			VehicleModel:  r.VehicleModel,
			VehicleColor:  r.VehicleColor,
			VehiclePlate:  r.VehiclePlate,
			MaxPassengers: maxp,
			Available:     true,
		}, nil
	case RoleAdmin:
		level := r.AdminLevel
		if level == "" {
			level = DefaultAdminLevel
		}
		return &AdminProfile{Level: level, Permissions: r.Permissions}, nil
	default:
		return nil, RoleError(r.Role)
	}
}
