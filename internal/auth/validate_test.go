package auth

import (
	"testing"

	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputAcceptsGoodCredentials(t *testing.T) {
	t.Parallel()

	err := ValidateInput(LoginInput{Email: "uddy@blissbyuddy.com", Password: "s3cret-pass"})
	require.NoError(t, err)
}

func TestValidateInputReportsFieldMessages(t *testing.T) {
	t.Parallel()

	err := ValidateInput(LoginInput{Email: "not-an-email", Password: "short"})
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 8", details["password"])
}

func TestValidateInputUsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	err := ValidateInput(LoginInput{})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Equal(t, "is required", details["email"])
}
