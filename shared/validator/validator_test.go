package validator_test

import (
	"errors"
	"lockngo/shared/failure"
	"lockngo/shared/validator"
	"strings"
	"testing"
)

type shipmentRequest struct {
	Pickup string  `json:"pickup_address" validate:"required,notblank,max=20"`
	Weight float64 `json:"luggage_weight" validate:"gt=0"`
	Email  string  `json:"email"          validate:"omitempty,email"`
	Role   string  `json:"role"           validate:"omitempty,oneof=user agent"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        shipmentRequest
		expectError string
	}{
		{
			name: "valid struct",
			data: shipmentRequest{Pickup: "123 Main St", Weight: 10, Email: "a@b.co", Role: "agent"},
		},
		{
			name:        "missing required field",
			data:        shipmentRequest{Weight: 10},
			expectError: "pickup_address is required",
		},
		{
			name:        "blank field",
			data:        shipmentRequest{Pickup: "   ", Weight: 10},
			expectError: "pickup_address must not be blank",
		},
		{
			name:        "zero weight",
			data:        shipmentRequest{Pickup: "123 Main St"},
			expectError: "luggage_weight must be greater than 0",
		},
		{
			name:        "negative weight",
			data:        shipmentRequest{Pickup: "123 Main St", Weight: -2},
			expectError: "luggage_weight must be greater than 0",
		},
		{
			name:        "invalid email",
			data:        shipmentRequest{Pickup: "123 Main St", Weight: 1, Email: "nope"},
			expectError: "email must be a valid email address",
		},
		{
			name:        "invalid role",
			data:        shipmentRequest{Pickup: "123 Main St", Weight: 1, Role: "admin"},
			expectError: "role must be one of user agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.expectError == "" {
				if err != nil {
					t.Errorf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil {
				t.Fatalf("expected validation error %q, got nil", tt.expectError)
			}

			if err.Error() != tt.expectError {
				t.Errorf("expected %q, got %q", tt.expectError, err.Error())
			}

			if !errors.Is(err, failure.ErrValidation) {
				t.Errorf("expected a validation failure, got %T", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("", "required"); err == nil {
		t.Error("expected error for empty required value")
	}

	if err := validator.ValidateVar("x", "notblank"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"pickup_address":"123 Main St","luggage_weight":12.5}`,
		},
		{
			name:        "invalid value",
			jsonBody:    `{"pickup_address":"123 Main St","luggage_weight":0}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"pickup_address":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data shipmentRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var data shipmentRequest

	err := validator.Decode(strings.NewReader(`{"luggage_weight":0}`), &data)
	if err != nil {
		t.Errorf("decode should not validate, got: %v", err)
	}

	err = validator.Decode(strings.NewReader(`{`), &data)
	if err == nil {
		t.Error("expected decode error, got nil")
	}
}
