// Package citiesrs realizes the cities reference data resource.
package citiesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the reference data use case
// with the cities REST APIs, namely GET requests to these paths under
// /api/carpool/v1 prefix:
//  1. cities for listing all cities,
//  2. cities/:id for fetching one city,
//  3. cities/search?name= for a case-insensitive name search,
//  4. cities/by-name/:name for an exact name lookup,
//  5. cities/by-country?country= for filtering by country,
//  6. cities/by-postal-code?postalCode= for filtering by postal code.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("cities", rs.Cities)
	r.GET("cities/search", rs.SearchCities)
	r.GET("cities/by-name/:name", rs.CityByName)
	r.GET("cities/by-country", rs.CitiesByCountry)
	r.GET("cities/by-postal-code", rs.CitiesByPostalCode)
	r.GET("cities/:id", rs.City)
}

func (rs *resource) Cities(c *gin.Context) {
	cs, err := rs.app.RefDataUseCase().Cities(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (rs *resource) City(c *gin.Context) {
	id, ok := serdser.BindUUID(c, "id")
	if !ok {
		return
	}
	city, err := rs.app.RefDataUseCase().City(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

type searchReq struct {
	Name string `form:"name" binding:"required"`
}

func (rs *resource) SearchCities(c *gin.Context) {
	req := &searchReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	cs, err := rs.app.RefDataUseCase().SearchCities(c, req.Name)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (rs *resource) CityByName(c *gin.Context) {
	city, err := rs.app.RefDataUseCase().CityByName(c, c.Param("name"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

type countryReq struct {
	Country string `form:"country" binding:"required"`
}

func (rs *resource) CitiesByCountry(c *gin.Context) {
	req := &countryReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	cs, err := rs.app.RefDataUseCase().CitiesByCountry(c, req.Country)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

type postalCodeReq struct {
	PostalCode string `form:"postalCode" binding:"required"`
}

func (rs *resource) CitiesByPostalCode(c *gin.Context) {
	req := &postalCodeReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	refData := rs.app.RefDataUseCase()
	cs, err := refData.CitiesByPostalCode(c, req.PostalCode)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}
