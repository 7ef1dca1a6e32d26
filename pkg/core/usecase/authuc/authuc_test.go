package authuc_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/internal/test/memrepo"
	"github.com/momeni/carpool/pkg/core/auth"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/authuc"
	"github.com/stretchr/testify/suite"
)

type reverseHasher struct{}

func (reverseHasher) Hash(pass string) (string, error) {
	return "rev$" + reverse(pass), nil
}

func (reverseHasher) Verify(hashed, pass string) error {
	if hashed != "rev$"+reverse(pass) {
		return auth.ErrMismatchedPassword
	}
	return nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// plainIssuer encodes the caller as "role:id" tokens.
type plainIssuer struct{}

func (plainIssuer) Issue(c model.Caller) (string, time.Time, error) {
	return c.Role.String() + ":" + c.UserID.String(),
		time.Now().Add(time.Hour), nil
}

func (plainIssuer) Parse(token string) (c model.Caller, err error) {
	role, id, ok := strings.Cut(token, ":")
	if !ok {
		return c, errors.New("malformed token")
	}
	if c.Role, err = model.ParseRole(role); err != nil {
		return c, err
	}
	c.UserID, err = uuid.Parse(id)
	return c, err
}

var errStoreDown = errors.New("store unavailable")

// downPool fails to provide any connection.
type downPool struct{}

func (downPool) Conn(context.Context, repo.ConnHandler) error {
	return errStoreDown
}

func (downPool) Close() error {
	return nil
}

type AuthUseCaseTestSuite struct {
	suite.Suite

	Ctx   context.Context
	Store *memrepo.Store
	Auth  *authuc.UseCase
}

func TestAuthUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &AuthUseCaseTestSuite{Ctx: context.Background()})
}

func (ats *AuthUseCaseTestSuite) SetupTest() {
	ats.Store = memrepo.New()
	ats.Auth = authuc.New(
		ats.Store, memrepo.Users{}, reverseHasher{}, plainIssuer{},
	)
}

func (ats *AuthUseCaseTestSuite) signUp(
	username, email string, role model.Role,
) (*model.User, error) {
	return ats.Auth.SignUp(ats.Ctx, &model.SignUpRequest{
		Username:     username,
		Email:        email,
		Password:     "secret-pass",
		FirstName:    "Amira",
		LastName:     "Trabelsi",
		Role:         role,
		VehicleModel: "Kia Picanto",
	})
}

func (ats *AuthUseCaseTestSuite) requireStatus(err error, code int) {
	ats.T().Helper()
	var ce *cerr.Error
	ats.Require().True(errors.As(err, &ce), "expected cerr, got %v", err)
	ats.Require().Equal(code, ce.HTTPStatusCode, "err: %v", err)
}

func (ats *AuthUseCaseTestSuite) TestSignUpProfiles() {
	d, err := ats.signUp("amira", "amira@example.com", model.RoleDriver)
	ats.Require().NoError(err)
	dp, ok := d.Driver()
	ats.Require().True(ok)
	ats.Equal("Kia Picanto", dp.VehicleModel)
	ats.Equal(model.DefaultMaxPassengers, dp.MaxPassengers)
	ats.True(dp.Available)
	ats.Equal("rev$ssap-terces", d.PasswordHash)

	p, err := ats.signUp("yassine", "yassine@example.com", model.RolePassenger)
	ats.Require().NoError(err)
	ats.Equal(model.RolePassenger, p.Role())

	a, err := ats.signUp("root", "root@example.com", model.RoleAdmin)
	ats.Require().NoError(err)
	ap, ok := a.Profile.(*model.AdminProfile)
	ats.Require().True(ok)
	ats.Equal(model.DefaultAdminLevel, ap.Level)
}

func (ats *AuthUseCaseTestSuite) TestSignUpUniqueness() {
	_, err := ats.signUp("amira", "amira@example.com", model.RoleDriver)
	ats.Require().NoError(err)

	_, err = ats.signUp("amira", "other@example.com", model.RolePassenger)
	ats.requireStatus(err, http.StatusConflict)
	ats.ErrorContains(err, authuc.MsgUsernameTaken)

	_, err = ats.signUp("other", "amira@example.com", model.RolePassenger)
	ats.requireStatus(err, http.StatusConflict)
	ats.ErrorContains(err, authuc.MsgEmailInUse)
}

func (ats *AuthUseCaseTestSuite) TestSignUpValidation() {
	_, err := ats.signUp("", "a@example.com", model.RoleDriver)
	ats.requireStatus(err, http.StatusBadRequest)
	_, err = ats.signUp("amira", "not-an-email", model.RoleDriver)
	ats.requireStatus(err, http.StatusBadRequest)
	_, err = ats.signUp("amira", "a@example.com", model.RoleInvalid)
	ats.requireStatus(err, http.StatusBadRequest)
	_, err = ats.Auth.SignUp(ats.Ctx, &model.SignUpRequest{
		Username: "amira", Email: "a@example.com", Password: "123",
		Role: model.RolePassenger,
	})
	ats.requireStatus(err, http.StatusBadRequest)
}

func (ats *AuthUseCaseTestSuite) TestSignInAndAuthenticate() {
	u, err := ats.signUp("amira", "amira@example.com", model.RoleDriver)
	ats.Require().NoError(err)

	for _, login := range []string{"amira", "amira@example.com"} {
		s, err := ats.Auth.SignIn(ats.Ctx, login, "secret-pass")
		ats.Require().NoError(err, "login: %s", login)
		ats.Equal("Bearer", s.Type)
		ats.Equal(u.ID, s.User.ID)

		c, err := ats.Auth.Authenticate(ats.Ctx, s.Token)
		ats.Require().NoError(err)
		ats.Equal(model.Caller{UserID: u.ID, Role: model.RoleDriver}, c)
	}

	_, err = ats.Auth.SignIn(ats.Ctx, "amira", "wrong-pass")
	ats.requireStatus(err, http.StatusUnauthorized)
	_, err = ats.Auth.SignIn(ats.Ctx, "nobody", "secret-pass")
	ats.requireStatus(err, http.StatusUnauthorized)

	_, err = ats.Auth.Authenticate(ats.Ctx, "garbage")
	ats.requireStatus(err, http.StatusUnauthorized)
	_, err = ats.Auth.Authenticate(ats.Ctx, "ADMIN:"+u.ID.String())
	ats.requireStatus(err, http.StatusUnauthorized)
	_, err = ats.Auth.Authenticate(ats.Ctx, "DRIVER:"+uuid.NewString())
	ats.requireStatus(err, http.StatusUnauthorized)
}

func (ats *AuthUseCaseTestSuite) TestListUsers() {
	_, err := ats.signUp("zied", "zied@example.com", model.RolePassenger)
	ats.Require().NoError(err)
	a, err := ats.signUp("admin", "admin@example.com", model.RoleAdmin)
	ats.Require().NoError(err)

	us, err := ats.Auth.ListUsers(
		ats.Ctx, model.Caller{UserID: a.ID, Role: model.RoleAdmin},
	)
	ats.Require().NoError(err)
	ats.Require().Len(us, 2)
	ats.Equal("admin", us[0].Username)
	ats.Equal("zied", us[1].Username)

	_, err = ats.Auth.ListUsers(
		ats.Ctx, model.Caller{UserID: uuid.New(), Role: model.RolePassenger},
	)
	ats.requireStatus(err, http.StatusForbidden)

	u, err := ats.Auth.GetUser(ats.Ctx, a.ID)
	ats.Require().NoError(err)
	ats.Equal("admin@example.com", u.Email)
	_, err = ats.Auth.GetUser(ats.Ctx, uuid.New())
	ats.requireStatus(err, http.StatusNotFound)
}

func (ats *AuthUseCaseTestSuite) TestAuthenticateStoreFailure() {
	a := authuc.New(downPool{}, memrepo.Users{}, reverseHasher{}, plainIssuer{})
	_, err := a.Authenticate(ats.Ctx, "DRIVER:"+uuid.NewString())
	ats.Require().ErrorIs(err, errStoreDown)
	var ce *cerr.Error
	ats.False(errors.As(err, &ce), "store failure became %v", err)
}
