package enums

import "fmt"

// EvidenceStatus describes what happened to a payment proof during checkout.
type EvidenceStatus string

const (
	EvidenceStatusNotRequired EvidenceStatus = "not_required"
	EvidenceStatusUploaded    EvidenceStatus = "uploaded"
	EvidenceStatusFailed      EvidenceStatus = "failed"
)

var validEvidenceStatuses = []EvidenceStatus{
	EvidenceStatusNotRequired,
	EvidenceStatusUploaded,
	EvidenceStatusFailed,
}

// String implements fmt.Stringer.
func (s EvidenceStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EvidenceStatus.
func (s EvidenceStatus) IsValid() bool {
	for _, candidate := range validEvidenceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEvidenceStatus converts raw input into an EvidenceStatus.
func ParseEvidenceStatus(value string) (EvidenceStatus, error) {
	for _, candidate := range validEvidenceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid evidence status %q", value)
}
