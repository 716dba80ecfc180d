package order

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// Details is the delivery form a customer fills in at checkout.
type Details struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	HouseNo  string `json:"houseNo"`
	Area     string `json:"area"`
	Locality string `json:"locality"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Trimmed returns d with surrounding whitespace removed from every field.
func (d Details) Trimmed() Details {
	return Details{
		FullName: strings.TrimSpace(d.FullName),
		Phone:    strings.TrimSpace(d.Phone),
		HouseNo:  strings.TrimSpace(d.HouseNo),
		Area:     strings.TrimSpace(d.Area),
		Locality: strings.TrimSpace(d.Locality),
		City:     strings.TrimSpace(d.City),
		State:    strings.TrimSpace(d.State),
		Pincode:  strings.TrimSpace(d.Pincode),
	}
}

// FullAddress formats the address as "houseNo, area, locality, city, state - pincode".
func (d Details) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s - %s", d.HouseNo, d.Area, d.Locality, d.City, d.State, d.Pincode)
}

// Validate checks d after trimming. It returns nil or a *ValidationError.
func (d Details) Validate() error {
	d = d.Trimmed()
	fields := map[string]string{}

	required := []struct{ name, value string }{
		{"fullName", d.FullName},
		{"phone", d.Phone},
		{"houseNo", d.HouseNo},
		{"area", d.Area},
		{"locality", d.Locality},
		{"city", d.City},
		{"state", d.State},
		{"pincode", d.Pincode},
	}
	for _, f := range required {
		if f.value == "" {
			fields[f.name] = "is required"
		}
	}

	if _, missing := fields["phone"]; !missing && !phonePattern.MatchString(d.Phone) {
		fields["phone"] = "must be exactly 10 digits"
	}
	if _, missing := fields["pincode"]; !missing && !pincodePattern.MatchString(d.Pincode) {
		fields["pincode"] = "must be exactly 6 digits"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// ValidationError maps a json field name to what is wrong with it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid order details: " + strings.Join(parts, "; ")
}
