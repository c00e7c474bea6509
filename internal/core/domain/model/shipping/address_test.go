package shipping_test

import (
	"encoding/json"
	"testing"

	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUSState(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"two letter code passes through", "TX", "TX", true},
		{"two letter code uppercased", "ca", "CA", true},
		{"full name", "Texas", "TX", true},
		{"full name case-insensitive", "nEw YoRk", "NY", true},
		{"district of columbia", "District of Columbia", "DC", true},
		{"dc abbreviation", "d.c.", "DC", true},
		{"whitespace trimmed", "  Ohio  ", "OH", true},
		{"unrecognized", "Atlantis", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := shipping.NormalizeUSState(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, code)
			}
		})
	}
}

func TestAddress_NormalizeState(t *testing.T) {
	t.Run("US full state name is normalized", func(t *testing.T) {
		addr := shipping.Address{
			Line1:      "123 Main St",
			City:       "Austin",
			State:      "Texas",
			PostalCode: "78701",
			Country:    "US",
		}
		require.NoError(t, addr.NormalizeState())
		assert.Equal(t, "TX", addr.State)
	})

	t.Run("unrecognized US state fails naming the field", func(t *testing.T) {
		addr := shipping.Address{State: "Atlantis", Country: "US"}
		err := addr.NormalizeState()
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "state")
	})

	t.Run("non-US state is untouched", func(t *testing.T) {
		addr := shipping.Address{State: "Bayern", Country: "DE"}
		require.NoError(t, addr.NormalizeState())
		assert.Equal(t, "Bayern", addr.State)
	})

	t.Run("empty state is left for completeness check", func(t *testing.T) {
		addr := shipping.Address{Country: "US"}
		require.NoError(t, addr.NormalizeState())
		assert.Empty(t, addr.State)
	})
}

func TestAddress_MissingFields(t *testing.T) {
	t.Run("all missing are listed in canonical order", func(t *testing.T) {
		addr := shipping.Address{}
		assert.Equal(t,
			[]string{"line1", "city", "state", "postal_code", "country"},
			addr.MissingFields())
	})

	t.Run("complete address has none", func(t *testing.T) {
		addr := shipping.Address{
			Line1: "123 Main St", City: "Austin", State: "TX",
			PostalCode: "78701", Country: "US",
		}
		assert.Empty(t, addr.MissingFields())
	})

	t.Run("line2 is optional", func(t *testing.T) {
		addr := shipping.Address{
			Line1: "123 Main St", City: "Austin", State: "TX",
			PostalCode: "78701", Country: "US",
		}
		assert.Empty(t, addr.MissingFields())
	})
}

func TestAddress_ValidateComplete(t *testing.T) {
	t.Run("incomplete address error names missing fields", func(t *testing.T) {
		addr := shipping.Address{Line1: "123 Main St", Country: "US"}
		err := addr.ValidateComplete()
		require.Error(t, err)

		var incomplete *shipping.IncompleteAddressError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, []string{"city", "state", "postal_code"}, incomplete.Missing)
		assert.Contains(t, err.Error(), "city, state, postal_code")
	})

	t.Run("state normalization runs before completeness", func(t *testing.T) {
		addr := shipping.Address{
			Line1: "123 Main St", City: "Austin", State: "Texas",
			PostalCode: "78701", Country: "US",
		}
		require.NoError(t, addr.ValidateComplete())
		assert.Equal(t, "TX", addr.State)
	})
}

func TestParseAddress(t *testing.T) {
	t.Run("payment-processor shape", func(t *testing.T) {
		raw := json.RawMessage(`{"line1":"123 Main St","line2":"Apt 4","city":"Austin","state":"TX","postal_code":"78701","country":"US"}`)
		addr := shipping.ParseAddress(raw)
		require.NotNil(t, addr)
		assert.Equal(t, "123 Main St", addr.Line1)
		assert.Equal(t, "Apt 4", addr.Line2)
		assert.Equal(t, "78701", addr.PostalCode)
	})

	t.Run("carrier shape with street1 and zip", func(t *testing.T) {
		raw := json.RawMessage(`{"street1":"456 Oak Ave","city":"Dallas","state":"TX","zip":"75201","country":"US"}`)
		addr := shipping.ParseAddress(raw)
		require.NotNil(t, addr)
		assert.Equal(t, "456 Oak Ave", addr.Line1)
		assert.Equal(t, "75201", addr.PostalCode)
	})

	t.Run("unusable shapes return nil", func(t *testing.T) {
		assert.Nil(t, shipping.ParseAddress(nil))
		assert.Nil(t, shipping.ParseAddress(json.RawMessage(`null`)))
		assert.Nil(t, shipping.ParseAddress(json.RawMessage(`"just a string"`)))
		assert.Nil(t, shipping.ParseAddress(json.RawMessage(`{"foo":"bar"}`)))
	})
}

func TestPickDestination(t *testing.T) {
	fromShipping := &shipping.Address{Line1: "shipping"}
	fromCustomer := &shipping.Address{Line1: "customer"}
	fromOrder := &shipping.Address{Line1: "order"}

	assert.Equal(t, fromShipping, shipping.PickDestination(fromShipping, fromCustomer, fromOrder))
	assert.Equal(t, fromCustomer, shipping.PickDestination(nil, fromCustomer, fromOrder))
	assert.Equal(t, fromOrder, shipping.PickDestination(nil, nil, fromOrder))
	assert.Nil(t, shipping.PickDestination(nil, nil, nil))
}

func TestAddress_Lines(t *testing.T) {
	addr := shipping.Address{
		Name: "Jo Smith", Line1: "123 Main St",
		City: "Austin", State: "TX", PostalCode: "78701", Country: "US",
	}
	assert.Equal(t,
		[]string{"Jo Smith", "123 Main St", "Austin, TX 78701", "US"},
		addr.Lines())
}
