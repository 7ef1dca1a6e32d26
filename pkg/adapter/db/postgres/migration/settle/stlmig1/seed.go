package stlmig1

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// seedNS is the namespace of the name-based UUIDs of seeded rows, so
// their identifiers are stable among different initializations.
var seedNS = uuid.MustParse("5c3e1f0a-8a4e-4d3b-9a43-4f0f6cb1d2e7")

// SeedID returns the identifier of the seeded row of the kind table
// which is named name. For example, SeedID("cities", "Tunis").
func SeedID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(seedNS, []byte(kind+"/"+name))
}

// DevPassword is the password of all sample users of the dev data.
const DevPassword = "carpool-dev-1234"

// Sample usernames which are created by InitDevSchema.
const (
	DevDriver    = "ahmed.driver"
	DevPassenger = "sarra.passenger"
	DevAdmin     = "admin"
)

type city struct {
	name, postalCode string
	lat, lon         float64
}

// Cities lists the names of the seeded cities.
var Cities = []string{
	"Tunis", "Ariana", "Bizerte", "Nabeul", "Hammamet", "Sousse",
	"Monastir", "Mahdia", "Kairouan", "Sfax", "Gabes", "Gafsa",
	"Tozeur", "Kebili", "Medenine", "Djerba",
}

var cities = map[string]city{
	"Tunis":    {"Tunis", "1000", 36.8065, 10.1815},
	"Ariana":   {"Ariana", "2080", 36.8625, 10.1956},
	"Bizerte":  {"Bizerte", "7000", 37.2744, 9.8739},
	"Nabeul":   {"Nabeul", "8000", 36.4561, 10.7376},
	"Hammamet": {"Hammamet", "8050", 36.4000, 10.6167},
	"Sousse":   {"Sousse", "4000", 35.8256, 10.6411},
	"Monastir": {"Monastir", "5000", 35.7643, 10.8113},
	"Mahdia":   {"Mahdia", "5100", 35.5047, 11.0622},
	"Kairouan": {"Kairouan", "3100", 35.6781, 10.0963},
	"Sfax":     {"Sfax", "3000", 34.7406, 10.7603},
	"Gabes":    {"Gabes", "6000", 33.8815, 10.0982},
	"Gafsa":    {"Gafsa", "2100", 34.4250, 8.7842},
	"Tozeur":   {"Tozeur", "2200", 33.9197, 8.1335},
	"Kebili":   {"Kebili", "4200", 33.7044, 8.9690},
	"Medenine": {"Medenine", "4100", 33.3549, 10.5055},
	"Djerba":   {"Djerba", "4180", 33.8076, 10.8451},
}

func cityRows() []map[string]any {
	rows := make([]map[string]any, 0, len(Cities))
	for _, n := range Cities {
		c := cities[n]
		rows = append(rows, map[string]any{
			"id":          SeedID("cities", n),
			"name":        c.name,
			"postal_code": c.postalCode,
			"country":     "Tunisia",
			"lat":         c.lat,
			"lon":         c.lon,
		})
	}
	return rows
}

type option struct {
	name, description string
	price             float64
	active            bool
}

var options = []option{
	{"Air Conditioning", "The car is air conditioned", 0, true},
	{"Non-Smoking", "Smoking is not allowed", 0, true},
	{"Music", "Music during the ride", 0, true},
	{"Pet Friendly", "Small pets are welcome", 5, true},
	{"Extra Luggage", "Room for one extra suitcase", 10, true},
	{"Child Seat", "A child seat is installed", 8, true},
	{"WiFi", "Mobile hotspot during the ride", 3, true},
	{"Roof Box", "Roof box for sport equipment", 12, false},
}

// ActiveOptions is the number of seeded options which are active.
const ActiveOptions = 7

func optionRows() []map[string]any {
	rows := make([]map[string]any, 0, len(options))
	for _, o := range options {
		rows = append(rows, map[string]any{
			"id":          SeedID("options", o.name),
			"name":        o.name,
			"description": o.description,
			"price":       o.price,
			"active":      o.active,
		})
	}
	return rows
}

func (sm1 *Settler) insertUsers(gdb *gorm.DB) error {
	hash, err := sm1.hasher.Hash(DevPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	now := time.Now()
	user := func(username, first, last, phone, role string) map[string]any {
		return map[string]any{
			"id":            SeedID("users", username),
			"username":      username,
			"email":         username + "@carpool.tn",
			"password_hash": hash,
			"first_name":    first,
			"last_name":     last,
			"phone":         phone,
			"role":          role,
			"created_at":    now,
		}
	}
	users := []map[string]any{
		user(DevDriver, "Ahmed", "Ben Salah", "+21620111222", "DRIVER"),
		user(DevPassenger, "Sarra", "Trabelsi", "+21650333444", "PASSENGER"),
		user(DevAdmin, "Admin", "Carpool", "", "ADMIN"),
	}
	if err := gdb.Table("users").Create(users).Error; err != nil {
		return fmt.Errorf("users: %w", err)
	}
	err = gdb.Table("drivers").Create(map[string]any{
		"user_id":        SeedID("users", DevDriver),
		"license_number": "TN-0412-7788",
		"vehicle_model":  "Renault Clio",
		"vehicle_color":  "grey",
		"vehicle_plate":  "215 TU 3021",
		"max_passengers": 4,
		"rating":         4.7,
		"total_trips":    12,
		"verified":       true,
		"available":      true,
	}).Error
	if err != nil {
		return fmt.Errorf("drivers: %w", err)
	}
	err = gdb.Table("passengers").Create(map[string]any{
		"user_id":                  SeedID("users", DevPassenger),
		"preferred_payment_method": "cash",
		"rating":                   4.9,
		"total_rides":              5,
		"verified":                 true,
	}).Error
	if err != nil {
		return fmt.Errorf("passengers: %w", err)
	}
	err = gdb.Table("admins").Create(map[string]any{
		"user_id":     SeedID("users", DevAdmin),
		"admin_level": "super",
		"permissions": datatypes.JSON(`["users","trips","settings"]`),
	}).Error
	if err != nil {
		return fmt.Errorf("admins: %w", err)
	}
	return nil
}

type trip struct {
	name             string
	from, to         string
	via              []string
	departIn         time.Duration
	price            float64
	seats, available int
	status           string
	options          []string
}

// Trips lists the names of the seeded sample trips.
var Trips = []string{"tunis-sousse", "sfax-tunis", "tunis-bizerte"}

var trips = []trip{
	{
		"tunis-sousse", "Tunis", "Sousse", []string{"Hammamet"},
		24 * time.Hour, 15, 4, 3, "PLANNED",
		[]string{"Air Conditioning", "Non-Smoking"},
	},
	{
		"sfax-tunis", "Sfax", "Tunis", nil,
		72 * time.Hour, 25, 3, 3, "PLANNED",
		[]string{"Air Conditioning", "Extra Luggage"},
	},
	{
		"tunis-bizerte", "Tunis", "Bizerte", nil,
		-48 * time.Hour, 8, 4, 4, "COMPLETED",
		nil,
	},
}

func insertTrips(gdb *gorm.DB) error {
	now := time.Now().Truncate(time.Minute)
	driverID := SeedID("users", DevDriver)
	for _, t := range trips {
		id := SeedID("trips", t.name)
		err := gdb.Table("trips").Create(map[string]any{
			"id":              id,
			"driver_id":       driverID,
			"departure_time":  now.Add(t.departIn),
			"price_per_seat":  t.price,
			"max_seats":       t.seats,
			"available_seats": t.available,
			"description":     fmt.Sprintf("%s to %s", t.from, t.to),
			"status":          t.status,
			"created_at":      now,
			"updated_at":      now,
		}).Error
		if err != nil {
			return fmt.Errorf("trip %q: %w", t.name, err)
		}
		stops := append(append([]string{t.from}, t.via...), t.to)
		points := make([]map[string]any, 0, len(stops))
		links := make([]map[string]any, 0, len(stops))
		for i, n := range stops {
			role := "INTERMEDIATE"
			switch i {
			case 0:
				role = "START"
			case len(stops) - 1:
				role = "END"
			}
			c := cities[n]
			points = append(points, map[string]any{
				"id":       SeedID("geo_points", fmt.Sprintf("%s/%d", t.name, i)),
				"trip_id":  id,
				"position": i,
				"lat":      c.lat,
				"lon":      c.lon,
				"address":  c.name + ", Tunisia",
				"role":     role,
			})
			links = append(links, map[string]any{
				"trip_id": id,
				"city_id": SeedID("cities", n),
			})
		}
		if err := gdb.Table("geo_points").Create(points).Error; err != nil {
			return fmt.Errorf("points of %q: %w", t.name, err)
		}
		if err := gdb.Table("trip_cities").Create(links).Error; err != nil {
			return fmt.Errorf("cities of %q: %w", t.name, err)
		}
		if len(t.options) == 0 {
			continue
		}
		links = links[:0]
		for _, o := range t.options {
			links = append(links, map[string]any{
				"trip_id":   id,
				"option_id": SeedID("options", o),
			})
		}
		if err := gdb.Table("trip_options").Create(links).Error; err != nil {
			return fmt.Errorf("options of %q: %w", t.name, err)
		}
	}
	err := gdb.Table("reservations").Create(map[string]any{
		"id":           SeedID("reservations", "tunis-sousse/1"),
		"trip_id":      SeedID("trips", "tunis-sousse"),
		"passenger_id": SeedID("users", DevPassenger),
		"seats":        1,
		"total_price":  15.0,
		"status":       "PENDING",
		"notes":        "One backpack",
		"reserved_at":  now,
	}).Error
	if err != nil {
		return fmt.Errorf("reservations: %w", err)
	}
	return nil
}
