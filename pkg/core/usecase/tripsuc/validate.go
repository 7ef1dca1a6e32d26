package tripsuc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/momeni/carpool/pkg/core/model"
)

// ValidateTrip checks req before its submission for creation or
// update. Errors make req unacceptable, while warnings only inform
// the driver about unusual values.
func (trips *UseCase) ValidateTrip(req *model.TripRequest) *model.Validation {
	v := &model.Validation{Errors: []string{}, Warnings: []string{}}
	if !req.DepartureTime.After(trips.now()) {
		v.Errors = append(v.Errors, "Departure time must be in the future")
	}
	if at := req.ArrivalTime; at != nil && !at.After(req.DepartureTime) {
		v.Errors = append(
			v.Errors, "Arrival time must be after departure time",
		)
	}
	if req.PricePerSeat <= 0 {
		v.Errors = append(v.Errors, "Price per seat must be greater than 0")
	} else if req.PricePerSeat > trips.highPrice {
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"Price per seat is quite high (over %v %s)",
			trips.highPrice, trips.currency,
		))
	}
	if req.MaxSeats < model.MinSeats || req.MaxSeats > model.MaxSeats {
		v.Errors = append(v.Errors, fmt.Sprintf(
			"Maximum seats must be between %d and %d",
			model.MinSeats, model.MaxSeats,
		))
	}
	if len(req.Description) > model.MaxDescriptionLen {
		v.Errors = append(v.Errors, fmt.Sprintf(
			"Description must not exceed %d characters",
			model.MaxDescriptionLen,
		))
	}
	if req.StartPoint == nil {
		v.Errors = append(v.Errors, "Departure point is required")
	}
	if req.EndPoint == nil {
		v.Errors = append(v.Errors, "Arrival point is required")
	}
	for _, p := range req.Points() {
		if err := p.Validate(); err != nil {
			v.Errors = append(v.Errors, fmt.Sprintf(
				"Invalid %s point: %v", strings.ToLower(p.Role.String()), err,
			))
		}
	}
	if sameAddress(req.StartPoint, req.EndPoint) {
		v.Warnings = append(
			v.Warnings, "Departure and arrival addresses are the same",
		)
	}
	v.Valid = len(v.Errors) == 0
	return v
}

func sameAddress(a, b *model.Waypoint) bool {
	if a == nil || b == nil {
		return false
	}
	aa := strings.TrimSpace(a.Address)
	return aa != "" && strings.EqualFold(aa, strings.TrimSpace(b.Address))
}

// validationError joins the errors of v as one error.
func validationError(v *model.Validation) error {
	return errors.New(strings.Join(v.Errors, "; "))
}
