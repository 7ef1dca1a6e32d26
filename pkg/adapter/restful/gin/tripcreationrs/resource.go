// Package tripcreationrs realizes the trip creation assistant resource
// which validates draft trips, estimates routes, and provides the
// reference data which are needed by trip creation forms.
package tripcreationrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/bearer"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/tripsrs"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource with the relevant REST APIs:
//  1. POST request to /api/carpool/v1/trip-creation/validate
//     in order to validate a draft trip without persisting it,
//  2. POST request to /api/carpool/v1/trip-creation/estimate
//     in order to estimate the distance, duration, and cost of a route,
//  3. GET request to /api/carpool/v1/trip-creation/form-data
//     in order to fetch cities, options, and other form choices,
//  4. POST request to /api/carpool/v1/trip-creation/create
//     which is an alias of creating a trip.
//
// The r router group must authenticate its callers.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("trip-creation/validate", rs.ValidateTrip)
	r.POST("trip-creation/estimate", rs.EstimateTrip)
	r.GET("trip-creation/form-data", rs.FormData)
	r.POST("trip-creation/create", rs.CreateTrip)
}

func (rs *resource) ValidateTrip(c *gin.Context) {
	req, ok := tripsrs.DserTripReq(c)
	if !ok {
		return
	}
	v := rs.app.TripsUseCase().ValidateTrip(req)
	c.JSON(http.StatusOK, v)
}

type estimateReq struct {
	From string `json:"departure_address" binding:"required"`
	To   string `json:"arrival_address" binding:"required"`
}

func (rs *resource) EstimateTrip(c *gin.Context) {
	req := &estimateReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	e, err := rs.app.EstimateUseCase().EstimateTrip(c, req.From, req.To)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (rs *resource) FormData(c *gin.Context) {
	fd, err := rs.app.RefDataUseCase().FormData(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, fd)
}

func (rs *resource) CreateTrip(c *gin.Context) {
	req, ok := tripsrs.DserTripReq(c)
	if !ok {
		return
	}
	tv, err := rs.app.TripsUseCase().CreateTrip(c, bearer.Caller(c), req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, tv)
}
