package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndParse(t *testing.T) {
	i, err := New(secret, time.Hour, "carpool")
	require.NoError(t, err)
	c := model.Caller{UserID: uuid.New(), Role: model.RoleDriver}
	tok, exp, err := i.Issue(c)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)
	assert.Equal(t, 2, strings.Count(tok, "."))

	parsed, err := i.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestParseRejects(t *testing.T) {
	i, err := New(secret, time.Hour, "carpool")
	require.NoError(t, err)
	tok, _, err := i.Issue(model.Caller{
		UserID: uuid.New(), Role: model.RolePassenger,
	})
	require.NoError(t, err)

	other, err := New([]byte(strings.Repeat("x", 32)), time.Hour, "carpool")
	require.NoError(t, err)
	_, err = other.Parse(tok)
	assert.Error(t, err, "signed by another secret")

	foreign, err := New(secret, time.Hour, "elsewhere")
	require.NoError(t, err)
	_, err = foreign.Parse(tok)
	assert.Error(t, err, "issued by another issuer")

	later := *i
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(tok)
	assert.Error(t, err, "expired")

	_, err = i.Parse(tok[:len(tok)-2])
	assert.Error(t, err, "truncated")
}

func TestNewValidation(t *testing.T) {
	_, err := New([]byte("short"), time.Hour, "")
	assert.Error(t, err)
	_, err = New(secret, 0, "")
	assert.Error(t, err)
	i, err := New(secret, time.Minute, "")
	require.NoError(t, err)
	_, _, err = i.Issue(model.Caller{UserID: uuid.New()})
	assert.Error(t, err, "invalid role")
}
