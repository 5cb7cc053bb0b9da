package validation

import (
	"strings"
	"testing"
)

// --- ValidateUTF8 Tests ---

func TestValidateUTF8_Valid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"ascii", "hello world"},
		{"empty", ""},
		{"unicode", "Hello, 世界"},
		{"emoji", "Hello 👋🏻"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUTF8("field", tt.value)
			if err != nil {
				t.Errorf("ValidateUTF8(%q) = %v, want nil", tt.value, err)
			}
		})
	}
}

func TestValidateUTF8_Invalid(t *testing.T) {
	// Invalid UTF-8 byte sequence
	invalidUTF8 := string([]byte{0xff, 0xfe})

	err := ValidateUTF8("message", invalidUTF8)
	if err == nil {
		t.Error("ValidateUTF8(invalid) = nil, want error")
	}
	if err != nil && err.Field != "message" {
		t.Errorf("error.Field = %q, want %q", err.Field, "message")
	}
}

// --- ValidateRequired Tests ---

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("message", "hi"); err != nil {
		t.Errorf("ValidateRequired(non-empty) = %v, want nil", err)
	}
	if err := ValidateRequired("message", "   "); err == nil {
		t.Error("ValidateRequired(whitespace) = nil, want error")
	}
	if err := ValidateRequired("message", ""); err == nil {
		t.Error("ValidateRequired(empty) = nil, want error")
	}
}

// --- ValidateNoNullBytes Tests ---

func TestValidateNoNullBytes_Clean(t *testing.T) {
	if err := ValidateNoNullBytes("field", "hello world"); err != nil {
		t.Errorf("ValidateNoNullBytes(clean) = %v, want nil", err)
	}
}

func TestValidateNoNullBytes_WithNull(t *testing.T) {
	if err := ValidateNoNullBytes("message", "hello\x00world"); err == nil {
		t.Error("ValidateNoNullBytes(null byte) = nil, want error")
	}
}

// --- ValidateMaxLength Tests ---

func TestValidateMaxLength(t *testing.T) {
	if err := ValidateMaxLength("field", "short", 10); err != nil {
		t.Errorf("ValidateMaxLength(short) = %v, want nil", err)
	}
	if err := ValidateMaxLength("field", strings.Repeat("a", 11), 10); err == nil {
		t.Error("ValidateMaxLength(too long) = nil, want error")
	}
	// Length counts runes, not bytes.
	if err := ValidateMaxLength("field", strings.Repeat("世", 10), 10); err != nil {
		t.Errorf("ValidateMaxLength(10 runes) = %v, want nil", err)
	}
}

// --- Collector Tests ---

func TestCollector_AccumulatesAll(t *testing.T) {
	var c Collector
	c.Add(ValidateRequired("message", ""))
	c.Add(ValidateMaxLength("message", strings.Repeat("a", 20), 10))
	c.Add(nil)

	if !c.HasErrors() {
		t.Fatal("HasErrors() = false, want true")
	}
	if len(c.Errors()) != 2 {
		t.Errorf("len(Errors()) = %d, want 2", len(c.Errors()))
	}
}

// --- ValidateChatMessage Tests ---

func TestValidateChatMessage_Valid(t *testing.T) {
	if errs := ValidateChatMessage("How many deals do we have?"); len(errs) != 0 {
		t.Errorf("ValidateChatMessage(valid) = %v, want no errors", errs)
	}
}

func TestValidateChatMessage_Empty(t *testing.T) {
	errs := ValidateChatMessage("")
	if len(errs) == 0 {
		t.Fatal("ValidateChatMessage(empty) = no errors, want required failure")
	}
	if errs[0].Field != "message" {
		t.Errorf("Field = %q, want message", errs[0].Field)
	}
}

func TestValidateChatMessage_TooLong(t *testing.T) {
	errs := ValidateChatMessage(strings.Repeat("a", MaxMessageLength+1))
	if len(errs) == 0 {
		t.Error("ValidateChatMessage(too long) = no errors, want length failure")
	}
}
