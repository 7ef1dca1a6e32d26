package hash_test

import (
	"strings"
	"testing"

	"github.com/momeni/carpool/pkg/adapter/hash"
	"github.com/momeni/carpool/pkg/core/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	for method, prefix := range map[string]string{
		"":               "SCRAM-SHA-256$15000:",
		hash.SCRAMSHA256: "SCRAM-SHA-256$15000:",
		hash.SCRAMSHA1:   "SCRAM-SHA-1$15000:",
		hash.BCrypt:      "$2a$10$",
	} {
		d, err := hash.New(method)
		require.NoError(t, err, "method=%q", method)
		h, err := d.Hash("s3cret pass")
		require.NoError(t, err, "method=%q", method)
		assert.True(t, strings.HasPrefix(h, prefix), "hash=%q", h)
		assert.NoError(t, d.Verify(h, "s3cret pass"), "method=%q", method)
		assert.ErrorIs(
			t, d.Verify(h, "s3cret-pass"), auth.ErrMismatchedPassword,
			"method=%q", method,
		)
		h2, err := d.Hash("s3cret pass")
		require.NoError(t, err)
		assert.NotEqual(t, h, h2, "salts must be random")
	}
}

func TestVerifyAcrossMethods(t *testing.T) {
	bc, err := hash.New(hash.BCrypt)
	require.NoError(t, err)
	h, err := bc.Hash("pass1234")
	require.NoError(t, err)

	sc, err := hash.New(hash.SCRAMSHA256)
	require.NoError(t, err)
	assert.NoError(t, sc.Verify(h, "pass1234"))
	assert.Error(t, sc.Verify("plain-text", "plain-text"))
}

func TestUnsupportedMethod(t *testing.T) {
	_, err := hash.New("md5")
	assert.Error(t, err)
}
