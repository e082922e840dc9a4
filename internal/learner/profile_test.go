package learner

import "testing"

func TestNormalizeIC(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"991231-10-1234", "991231101234"},
		{" 991231101234 ", "991231101234"},
		{"99.12.31/10#1234", "991231101234"},
		{"A123456", "A123456"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeIC(tc.in); got != tc.want {
			t.Errorf("NormalizeIC(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateIC(t *testing.T) {
	if err := ValidateIC("12345"); err != nil {
		t.Errorf("ValidateIC(12345) = %v, want nil", err)
	}
	if err := ValidateIC("1234"); err == nil {
		t.Error("ValidateIC(1234) should fail")
	}
	if err := ValidateIC(""); err == nil {
		t.Error("ValidateIC empty should fail")
	}
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile("Ahmad bin Ali", "991231-10-1234", "4 ASIM")
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}
	if p.FullName != "AHMAD BIN ALI" {
		t.Errorf("FullName = %q, want upper-cased", p.FullName)
	}
	if p.ICNumber != "991231101234" {
		t.Errorf("ICNumber = %q, want normalized", p.ICNumber)
	}
	if p.ClassName != "4 ASIM" {
		t.Errorf("ClassName = %q", p.ClassName)
	}
}

func TestNewProfileRejectsBadInput(t *testing.T) {
	if _, err := NewProfile("", "991231101234", "4 ASIM"); err == nil {
		t.Error("empty name should fail")
	}
	if _, err := NewProfile("AHMAD", "12-34", "4 ASIM"); err == nil {
		t.Error("short IC should fail")
	}
	if _, err := NewProfile("AHMAD", "991231101234", ""); err == nil {
		t.Error("empty class should fail")
	}
}
