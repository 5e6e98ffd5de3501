package validator

import (
	"context"
	"errors"
	"testing"
)

type member struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type input struct {
	TransactionID string   `json:"transaction_id" validate:"min=5"`
	School        string   `json:"school" validate:"oneof=SOP SOET SOA"`
	Members       []member `json:"team_members" validate:"dive"`
}

func TestValidate_ReportsEveryInvalidField(t *testing.T) {
	err := Validate(context.Background(), input{
		TransactionID: "abc",
		School:        "XYZ",
		Members:       []member{{Name: "", Email: "not-an-email"}},
	})

	var fieldErrs Errors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected Errors, got %T (%v)", err, err)
	}

	want := map[string]string{
		"transaction_id":        "must be at least 5 characters",
		"school":                "must be one of: SOP, SOET, SOA",
		"team_members[0].name":  ErrFieldRequired,
		"team_members[0].email": ErrInvalidEmail,
	}
	if len(fieldErrs) != len(want) {
		t.Fatalf("expected %d field errors, got %d: %v", len(want), len(fieldErrs), fieldErrs)
	}
	for field, msg := range want {
		if got := fieldErrs[field]; got != msg {
			t.Errorf("field %q: expected %q, got %q", field, msg, got)
		}
	}
}

func TestValidate_ValidInput(t *testing.T) {
	err := Validate(context.Background(), input{
		TransactionID: "UPI123456789",
		School:        "SOET",
		Members:       []member{{Name: "Asha", Email: "asha@example.com"}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

type Embedded struct {
	Phone string `json:"phone" validate:"min=10"`
}

type outer struct {
	Password        string `json:"password" validate:"min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
	Embedded
}

func TestValidate_EmbeddedFieldsUseJSONNames(t *testing.T) {
	err := Validate(context.Background(), outer{Password: "secret1", ConfirmPassword: "secret2", Embedded: Embedded{Phone: "123"}})

	var fieldErrs Errors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected Errors, got %T (%v)", err, err)
	}
	if got := fieldErrs["phone"]; got != "must be at least 10 characters" {
		t.Errorf("phone: got %q", got)
	}
	if got := fieldErrs["confirm_password"]; got != "passwords do not match" {
		t.Errorf("confirm_password: got %q", got)
	}
}
