// Package optionsrs realizes the trip options reference data resource.
package optionsrs

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
// with the options REST APIs, namely GET requests to these paths under
// /api/carpool/v1 prefix:
//  1. options for listing the active options,
//  2. options/:id for fetching one option,
//  3. options/search?name= for a case-insensitive name search,
//  4. options/price-range?minPrice=&maxPrice= for a price filter.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("options", rs.Options)
	r.GET("options/search", rs.SearchOptions)
	r.GET("options/price-range", rs.OptionsByPriceRange)
	r.GET("options/:id", rs.Option)
}

func (rs *resource) Options(c *gin.Context) {
	opts, err := rs.app.RefDataUseCase().Options(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (rs *resource) Option(c *gin.Context) {
	id, ok := serdser.BindUUID(c, "id")
	if !ok {
		return
	}
	o, err := rs.app.RefDataUseCase().Option(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type searchReq struct {
	Name string `form:"name" binding:"required"`
}

func (rs *resource) SearchOptions(c *gin.Context) {
	req := &searchReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	opts, err := rs.app.RefDataUseCase().SearchOptions(c, req.Name)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

type priceRangeReq struct {
	MinPrice *float64 `form:"minPrice" binding:"required,min=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"required,min=0"`
}

func (rs *resource) OptionsByPriceRange(c *gin.Context) {
	req := &priceRangeReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	opts, err := rs.app.RefDataUseCase().OptionsByPriceRange(
		c, *req.MinPrice, *req.MaxPrice,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}
