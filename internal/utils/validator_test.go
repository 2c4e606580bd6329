package utils

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"alice", true},
		{"a.b-c_d", true},
		{"ab", false},
		{"", false},
		{"имя", false},
		{"with space", false},
	}

	for _, tt := range tests {
		err := ValidateUsername(tt.username)
		if tt.valid && err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", tt.username, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error", tt.username)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret"); err != nil {
		t.Errorf("six characters should pass: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("five characters should fail")
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"missing@tld", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.valid && err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", tt.email, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", tt.email)
		}
	}
}
