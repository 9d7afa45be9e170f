package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

type sample struct {
	FirstName string `json:"firstName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phoneNumber" validate:"omitempty,phone"`
	EIN       string `json:"ein" validate:"omitempty,ein"`
	Period    string `json:"period" validate:"omitempty,oneof=daily weekly monthly"`
}

func TestStruct_Valido(t *testing.T) {
	err := validate.Struct(sample{FirstName: "Jane", Email: "jane@x.com", Phone: "555-1234", EIN: "12-3456789"})
	assert.NoError(t, err)
}

func TestStruct_ErroresPorCampoConNombreJSON(t *testing.T) {
	err := validate.Struct(sample{Email: "no-es-email", EIN: "123", Period: "hourly"})
	require.Error(t, err)

	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["firstName"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be formatted as NN-NNNNNNN", fields["ein"])
	assert.Contains(t, fields["period"], "daily weekly monthly")
}

func TestErrors_OrNil(t *testing.T) {
	assert.NoError(t, validate.Errors{}.OrNil())

	err := validate.Errors{}.Add("shareholderInfo", "is required").OrNil()
	require.Error(t, err)
	var ve validate.Errors
	assert.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "shareholderInfo: is required")
}
