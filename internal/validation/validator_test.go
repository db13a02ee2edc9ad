// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package validation

import (
	"strings"
	"testing"
)

type scoreBody struct {
	UserID  *int64  `json:"user_id" validate:"required"`
	ItemIDs []int64 `json:"item_ids" validate:"required,min=1,max=3"`
	K       *int    `json:"k,omitempty" validate:"omitempty,gte=0,lte=500"`
	Name    string  `json:"name" validate:"omitempty,max=4"`
	Mode    string  `validate:"omitempty,oneof=fast exact"`
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     scoreBody
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: scoreBody{UserID: int64Ptr(1), ItemIDs: []int64{1, 2}, K: intPtr(0)},
		},
		{
			name:      "missing user",
			input:     scoreBody{ItemIDs: []int64{1}},
			wantField: "user_id",
			wantMsg:   "user_id is required",
		},
		{
			name:      "empty items",
			input:     scoreBody{UserID: int64Ptr(1), ItemIDs: []int64{}},
			wantField: "item_ids",
			wantMsg:   "item_ids must have at least 1 items",
		},
		{
			name:      "too many items",
			input:     scoreBody{UserID: int64Ptr(1), ItemIDs: []int64{1, 2, 3, 4}},
			wantField: "item_ids",
			wantMsg:   "item_ids must have at most 3 items",
		},
		{
			name:      "negative k",
			input:     scoreBody{UserID: int64Ptr(1), ItemIDs: []int64{1}, K: intPtr(-1)},
			wantField: "k",
			wantMsg:   "k must be greater than or equal to 0",
		},
		{
			name:      "long string",
			input:     scoreBody{UserID: int64Ptr(1), ItemIDs: []int64{1}, Name: "abcdef"},
			wantField: "name",
			wantMsg:   "name must have at most 4 characters",
		},
		{
			name:      "field without json tag",
			input:     scoreBody{UserID: int64Ptr(1), ItemIDs: []int64{1}, Mode: "slow"},
			wantField: "Mode",
			wantMsg:   "Mode must be one of: fast exact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}

			apiErr := verr.ToAPIError()
			if apiErr.Code != CodeValidationError {
				t.Errorf("Code = %q, want %q", apiErr.Code, CodeValidationError)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError_MultipleFields(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&scoreBody{K: intPtr(600)})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(verr.Errors()) != 3 {
		t.Fatalf("len(Errors()) = %d, want 3: %v", len(verr.Errors()), verr)
	}

	apiErr := verr.ToAPIError()
	for _, want := range []string{"user_id is required", "item_ids is required", "k must be less than or equal to 500"} {
		if !strings.Contains(apiErr.Message, want) {
			t.Errorf("Message = %q, missing %q", apiErr.Message, want)
		}
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("Details[fields] = %v, want 3 entries", apiErr.Details["fields"])
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	t.Parallel()
	verr := &RequestValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q, want %q", verr.Error(), "validation failed")
	}
	if verr.ToAPIError().Message != "Validation failed" {
		t.Errorf("ToAPIError().Message = %q", verr.ToAPIError().Message)
	}
}
