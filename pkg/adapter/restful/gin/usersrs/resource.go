// Package usersrs realizes the users resource which exposes the
// registered users to the authenticated callers.
package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/bearer"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the authentication use
// case with the relevant REST APIs including:
//  1. GET request to /api/carpool/v1/users/:id
//     in order to fetch one user,
//  2. GET request to /api/carpool/v1/users
//     in order to list all users (admins only).
//
// The r router group must authenticate its callers.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("users/:id", rs.GetUser)
	r.GET("users", rs.ListUsers)
}

func (rs *resource) GetUser(c *gin.Context) {
	id, ok := serdser.BindUUID(c, "id")
	if !ok {
		return
	}
	u, err := rs.app.AuthUseCase().GetUser(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) ListUsers(c *gin.Context) {
	us, err := rs.app.AuthUseCase().ListUsers(c, bearer.Caller(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, us)
}
