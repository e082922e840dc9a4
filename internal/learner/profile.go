// Package learner holds the learner profile and attempt history model.
package learner

import (
	"fmt"
	"strings"
)

// Classes is the fixed list of class names offered at onboarding.
var Classes = []string{"4 ASIM", "4 NAFI'", "5 ASIM", "5 NAFI'"}

// minICLength is the minimum length of a normalized identity card number.
const minICLength = 5

// Profile identifies one learner. Identity is the normalized ICNumber.
type Profile struct {
	FullName  string `json:"fullName"`
	ICNumber  string `json:"icNumber"`
	ClassName string `json:"className"`
}

// NormalizeIC strips separator characters from an identity card number,
// keeping only letters and digits. "991231-10-1234" becomes "991231101234".
func NormalizeIC(ic string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(ic) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateIC checks that a normalized IC number is usable as an identity.
func ValidateIC(normalized string) error {
	if len(normalized) < minICLength {
		return fmt.Errorf("IC number must be at least %d characters after normalization", minICLength)
	}
	return nil
}

// NewProfile builds a profile from raw onboarding input. The IC number is
// normalized and the full name upper-cased.
func NewProfile(fullName, icNumber, className string) (Profile, error) {
	name := strings.ToUpper(strings.TrimSpace(fullName))
	if name == "" {
		return Profile{}, fmt.Errorf("full name is required")
	}
	ic := NormalizeIC(icNumber)
	if err := ValidateIC(ic); err != nil {
		return Profile{}, err
	}
	if className == "" {
		return Profile{}, fmt.Errorf("class name is required")
	}
	return Profile{FullName: name, ICNumber: ic, ClassName: className}, nil
}
