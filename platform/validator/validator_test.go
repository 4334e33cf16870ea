package validator

import "testing"

type phoneForm struct {
	Phone string `validate:"required,trphone"`
}

func TestTRPhoneTag(t *testing.T) {
	val := New()

	if err := val.Struct(phoneForm{Phone: "0555 123 45 67"}); err != nil {
		t.Errorf("valid mobile rejected: %v", err)
	}
	if err := val.Struct(phoneForm{Phone: "0212 123 45 67"}); err == nil {
		t.Error("landline accepted as mobile")
	}
	if err := val.Var("+905321234567", "trphone"); err != nil {
		t.Errorf("Var() rejected international form: %v", err)
	}
}
