package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressValidate(t *testing.T) {
	full := Address{Line1: "1 Main St", Pincode: "12345", City: "Metropolis", State: "NY"}
	assert.NoError(t, full.Validate())

	// line2 and landmark are optional
	assert.NoError(t, Address{
		Line1: "1 Main St", Line2: "Apt 2", Landmark: "by the park",
		Pincode: "12345", City: "Metropolis", State: "NY",
	}.Validate())

	err := Address{Line1: "  ", Pincode: "12345", City: "Metropolis", State: "NY"}.Validate()
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Msg, "line1")

	err = Address{}.Validate()
	require.Error(t, err)
	require.ErrorAs(t, err, &vErr)
	for _, field := range []string{"line1", "pincode", "city", "state"} {
		assert.Contains(t, vErr.Msg, field)
	}
}

func TestAddressString(t *testing.T) {
	a := Address{
		Line1: "1 Main St", Line2: "Apt 2", Landmark: "by the park",
		Pincode: "12345", City: "Metropolis", State: "NY",
	}
	assert.Equal(t, "1 Main St, Apt 2, by the park, 12345, Metropolis, NY", a.String())

	// empty optional fields leave no dangling separators
	b := Address{Line1: "1 Main St", Pincode: "12345", City: "Metropolis", State: "NY"}
	assert.Equal(t, "1 Main St, 12345, Metropolis, NY", b.String())
}
