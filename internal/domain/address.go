package domain

import "strings"

// Address is the delivery address collected at checkout. Line2 and
// Landmark are optional; the rest must be filled before any request
// leaves the client.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	Landmark string `json:"landmark,omitempty"`
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// ValidationError is raised before any network call when required
// input is missing or malformed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (a Address) Validate() error {
	var missing []string
	if strings.TrimSpace(a.Line1) == "" {
		missing = append(missing, "line1")
	}
	if strings.TrimSpace(a.Pincode) == "" {
		missing = append(missing, "pincode")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return &ValidationError{Msg: "address is missing required fields: " + strings.Join(missing, ", ")}
	}
	return nil
}

// String flattens the address into the single free-text line the
// store persists.
func (a Address) String() string {
	parts := []string{a.Line1, a.Line2, a.Landmark, a.Pincode, a.City, a.State}
	filled := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			filled = append(filled, p)
		}
	}
	return strings.Join(filled, ", ")
}
