package entity

import "time"

// VerificationEntry is a pending password-reset code for one email address.
type VerificationEntry struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired reports whether the code can no longer be accepted at now.
func (v *VerificationEntry) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
