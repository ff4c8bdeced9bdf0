package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SubscriptionRequest is the body posted by the subscription form.
type SubscriptionRequest struct {
	FullName      string      `json:"fullName" binding:"required"`
	Email         string      `json:"email" binding:"required"`
	Address       string      `json:"address" binding:"required"`
	Phone         string      `json:"phone" binding:"required"`
	AccountHolder string      `json:"accountHolder" binding:"required"`
	Type          LookupField `json:"type"`
	Formule       LookupField `json:"formule"`
	Distance      LookupField `json:"distance"`
}

// SubscriptionResponse is returned when a payment link was resolved.
type SubscriptionResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LookupField accepts either a JSON string or a JSON number, since forms send
// distance tiers both as "100" and 100. null decodes to the empty string.
type LookupField string

func (f *LookupField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = LookupField(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("lookup field must be a string or a number: %w", err)
	}
	*f = LookupField(n.String())
	return nil
}

func (f LookupField) String() string {
	return string(f)
}
