package shipping

import (
	"encoding/json"
	"fmt"
	"strings"

	"phantomtrack/internal/pkg/errs"
)

// Address is the canonical postal-address record used for label creation.
// Candidates arrive in several shapes (payment-processor shipping details,
// payment-processor billing details, or a previously saved order address with
// carrier-style field names); all of them are converted into this one shape
// before any carrier call.
//
// An Address may be partial: completeness is a label-creation precondition
// checked via MissingFields, not a construction invariant, because admins can
// save incomplete addresses and fix them later.
type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// IncompleteAddressError reports exactly which required address fields are
// missing. The field names in Missing use the canonical wire names so the
// admin UI can highlight them.
type IncompleteAddressError struct {
	Missing []string
}

func (e *IncompleteAddressError) Error() string {
	return fmt.Sprintf("address is incomplete, missing: %s", strings.Join(e.Missing, ", "))
}

func (e *IncompleteAddressError) Unwrap() error {
	return errs.ErrValueIsRequired
}

// ParseAddress converts a loosely-typed address document into the canonical
// shape, or returns nil if the document carries no usable address keys.
// Two key conventions are recognized:
//   - payment-processor style: line1/line2/city/state/postal_code/country
//   - carrier style (historically saved rows): street1/street2/city/state/zip/country
func ParseAddress(raw json.RawMessage) *Address {
	if len(raw) == 0 {
		return nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	str := func(key string) string {
		if v, ok := doc[key].(string); ok {
			return v
		}
		return ""
	}

	if _, hasLine1 := doc["line1"].(string); hasLine1 || hasStringKey(doc, "postal_code") {
		return &Address{
			Line1:      str("line1"),
			Line2:      str("line2"),
			City:       str("city"),
			State:      str("state"),
			PostalCode: str("postal_code"),
			Country:    str("country"),
		}
	}

	if _, hasStreet1 := doc["street1"].(string); hasStreet1 || hasStringKey(doc, "zip") {
		return &Address{
			Line1:      str("street1"),
			Line2:      str("street2"),
			City:       str("city"),
			State:      str("state"),
			PostalCode: str("zip"),
			Country:    str("country"),
		}
	}

	return nil
}

func hasStringKey(doc map[string]any, key string) bool {
	_, ok := doc[key].(string)
	return ok
}

// PickDestination selects the destination address from the available
// candidates in fixed priority order: the checkout session's shipping
// address, then its billing/customer address, then the address previously
// saved on the order. Returns nil if no candidate is usable.
func PickDestination(fromShipping, fromCustomer, fromOrder *Address) *Address {
	switch {
	case fromShipping != nil:
		return fromShipping
	case fromCustomer != nil:
		return fromCustomer
	default:
		return fromOrder
	}
}

// NormalizeState rewrites a US address's state to its two-letter code.
// Non-US addresses are left untouched. An empty state is left for the
// completeness check to report. An unrecognized state value is a hard error
// naming the field, because the downstream carrier API rejects full state
// names and the admin has to correct the order before retrying.
func (a *Address) NormalizeState() error {
	if !strings.EqualFold(strings.TrimSpace(a.Country), "US") {
		return nil
	}
	if strings.TrimSpace(a.State) == "" {
		return nil
	}

	code, ok := NormalizeUSState(a.State)
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause("state",
			fmt.Errorf("%q is not a recognized US state", a.State))
	}
	a.State = code
	return nil
}

// MissingFields returns the required label-creation fields that are still
// empty, in canonical order: line1, city, state, postal_code, country.
func (a *Address) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"line1", a.Line1},
		{"city", a.City},
		{"state", a.State},
		{"postal_code", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ValidateComplete normalizes the state and checks completeness, returning an
// IncompleteAddressError listing exactly the missing fields. This is the hard
// precondition before requesting rates.
func (a *Address) ValidateComplete() error {
	if err := a.NormalizeState(); err != nil {
		return err
	}
	if missing := a.MissingFields(); len(missing) > 0 {
		return &IncompleteAddressError{Missing: missing}
	}
	return nil
}

// Lines renders the address as display lines for emails and order summaries.
// Empty components are skipped.
func (a *Address) Lines() []string {
	var lines []string
	if a.Name != "" {
		lines = append(lines, a.Name)
	}
	if a.Line1 != "" {
		lines = append(lines, a.Line1)
	}
	if a.Line2 != "" {
		lines = append(lines, a.Line2)
	}
	cityLine := strings.TrimSpace(strings.Trim(fmt.Sprintf("%s, %s %s", a.City, a.State, a.PostalCode), ", "))
	if cityLine != "" {
		lines = append(lines, cityLine)
	}
	if a.Country != "" {
		lines = append(lines, a.Country)
	}
	return lines
}
