// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsrs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/model"
)

// PointReq is a geo-point as sent by the clients.
type PointReq struct {
	Lat     *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Lon     *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Address string   `json:"address" binding:"max=255"`
}

func (p *PointReq) toModel() *model.Waypoint {
	return &model.Waypoint{
		Coordinate: model.Coordinate{Lat: *p.Lat, Lon: *p.Lon},
		Address:    p.Address,
	}
}

// TripReq is the JSON body of the trip creation, update, and
// validation requests.
type TripReq struct {
	DepartureTime      time.Time   `json:"departure_time" binding:"required"`
	ArrivalTime        *time.Time  `json:"arrival_time"`
	PricePerSeat       float64     `json:"price_per_seat" binding:"required,gt=0"`
	MaxSeats           int         `json:"max_seats" binding:"required,min=1,max=8"`
	Description        string      `json:"description" binding:"max=500"`
	StartPoint         *PointReq   `json:"start_point" binding:"required"`
	EndPoint           *PointReq   `json:"end_point" binding:"required"`
	IntermediatePoints []PointReq  `json:"intermediate_points" binding:"dive"`
	OptionIDs          []uuid.UUID `json:"option_ids"`
	CityIDs            []uuid.UUID `json:"city_ids"`
}

// ToModel converts the req to a version-independent model struct.
func (req *TripReq) ToModel() *model.TripRequest {
	tr := &model.TripRequest{
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		PricePerSeat:  req.PricePerSeat,
		MaxSeats:      req.MaxSeats,
		Description:   req.Description,
		StartPoint:    req.StartPoint.toModel(),
		EndPoint:      req.EndPoint.toModel(),
		OptionIDs:     req.OptionIDs,
		CityIDs:       req.CityIDs,
	}
	for i := range req.IntermediatePoints {
		tr.IntermediatePoints = append(
			tr.IntermediatePoints, *req.IntermediatePoints[i].toModel(),
		)
	}
	return tr
}

// DserTripReq binds the c request body as a TripReq and converts it
// to a model.TripRequest. If the body is not acceptable, a bad request
// response is sent and false is returned.
func DserTripReq(c *gin.Context) (*model.TripRequest, bool) {
	req := &TripReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	return req.ToModel(), true
}

type searchReq struct {
	DepartureTime    time.Time  `json:"departure_time" binding:"required"`
	MaxDepartureTime *time.Time `json:"max_departure_time"`
	StartLatitude    *float64   `json:"start_latitude" binding:"omitempty,min=-90,max=90"`
	StartLongitude   *float64   `json:"start_longitude" binding:"omitempty,min=-180,max=180"`
	EndLatitude      *float64   `json:"end_latitude" binding:"omitempty,min=-90,max=90"`
	EndLongitude     *float64   `json:"end_longitude" binding:"omitempty,min=-180,max=180"`
	MinPrice         *float64   `json:"min_price" binding:"omitempty,gt=0"`
	MaxPrice         *float64   `json:"max_price" binding:"omitempty,gt=0"`
	Seats            *int       `json:"number_of_seats" binding:"omitempty,min=1,max=8"`
	RadiusKm         *float64   `json:"search_radius_km" binding:"omitempty,min=0,max=100"`
	StartCity        string     `json:"start_city"`
	EndCity          string     `json:"end_city"`
}

func coordinate(lat, lon *float64) *model.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return &model.Coordinate{Lat: *lat, Lon: *lon}
}

func (rs *resource) DserSearchReq(c *gin.Context) (*model.SearchCriteria, bool) {
	req := &searchReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	sc := &model.SearchCriteria{
		MinDeparture: req.DepartureTime,
		MaxDeparture: req.MaxDepartureTime,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		Seats:        1,
		RadiusKm:     model.DefaultSearchRadiusKm,
		Start:        coordinate(req.StartLatitude, req.StartLongitude),
		End:          coordinate(req.EndLatitude, req.EndLongitude),
		StartCity:    req.StartCity,
		EndCity:      req.EndCity,
	}
	if req.Seats != nil {
		sc.Seats = *req.Seats
	}
	if req.RadiusKm != nil {
		sc.RadiusKm = *req.RadiusKm
	}
	return sc, true
}
