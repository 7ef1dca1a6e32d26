// Package authrs realizes the authentication resource, allowing users
// to sign up and sign in for a bearer token.
package authrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the authentication use
// case with the relevant REST APIs including:
//  1. POST request to /api/carpool/v1/auth/signup
//     in order to register a new passenger, driver, or admin,
//  2. POST request to /api/carpool/v1/auth/signin
//     in order to obtain a bearer token.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("auth/signup", rs.SignUp)
	r.POST("auth/signin", rs.SignIn)
}

func (rs *resource) SignUp(c *gin.Context) {
	req := &model.SignUpRequest{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	u, err := rs.app.AuthUseCase().SignUp(c, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type signInReq struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

func (rs *resource) SignIn(c *gin.Context) {
	req := &signInReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	s, err := rs.app.AuthUseCase().SignIn(c, req.UsernameOrEmail, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
