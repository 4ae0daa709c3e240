package domain

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		email *EmailInput
		want  InputStatus
	}{
		{"nil", nil, InputInvalid},
		{"empty", &EmailInput{}, InputInsufficient},
		{"whitespace", &EmailInput{Subject: " ", Body: "\t"}, InputInsufficient},
		{"subject only", &EmailInput{Subject: "hi"}, InputOK},
		{"body only", &EmailInput{Body: "hi"}, InputOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.email.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSelfSent(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"same bare address", "me@example.com", "me@example.com", true},
		{"display name form", "Me <me@example.com>", "me@example.com", true},
		{"case differs", "ME@Example.COM", "me@example.com", true},
		{"different user", "me@example.com", "you@example.com", false},
		{"different domain", "me@example.com", "me@other.com", false},
		{"missing to", "me@example.com", "", false},
		{"not an address", "me", "me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &EmailInput{From: tt.from, To: tt.to}
			if got := e.IsSelfSent(); got != tt.want {
				t.Errorf("IsSelfSent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSenderDomain(t *testing.T) {
	e := &EmailInput{From: "Billing <billing@Supplier.COM>"}
	if got := e.SenderDomain(); got != "supplier.com" {
		t.Errorf("SenderDomain() = %q, want %q", got, "supplier.com")
	}
}

func TestClamp01(t *testing.T) {
	nan := func() float64 {
		zero := 0.0
		return zero / zero
	}()

	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
		{nan, 0.5},
	}

	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
