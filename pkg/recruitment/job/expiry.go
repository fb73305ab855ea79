package job

import (
	"math"
	"time"
)

// Expiration is derived on read, never stored
type Expiration struct {
	DaysRemaining *int `json:"days_remaining,omitempty"`
	Expired       bool `json:"expired"`
	ExpiringSoon  bool `json:"expiring_soon"`
}

// ExpiryBucket is a listing filter over Expiration
type ExpiryBucket string

const (
	ExpiryAny          ExpiryBucket = ""
	ExpiryExpired      ExpiryBucket = "expired"
	ExpiryExpiringSoon ExpiryBucket = "expiring_soon"
	ExpiryCurrent      ExpiryBucket = "current"
)

const day = 24 * time.Hour

// Expiration computes days_remaining = ceil((expires_at - now) / 1 day) for
// active jobs whose flow is active. Frozen and completed jobs, and jobs that
// are not published, never report expiration.
func (j *Job) Expiration(now time.Time, soonDays int) Expiration {
	if j.ExpiresAt == nil || j.Status != StatusActive || j.FlowStatus != FlowActive {
		return Expiration{}
	}
	days := int(math.Ceil(float64(j.ExpiresAt.Sub(now)) / float64(day)))
	return Expiration{
		DaysRemaining: &days,
		Expired:       days < 0,
		ExpiringSoon:  days >= 0 && days <= soonDays,
	}
}

// Matches reports whether e falls into bucket b
func (b ExpiryBucket) Matches(e Expiration) bool {
	switch b {
	case ExpiryExpired:
		return e.Expired
	case ExpiryExpiringSoon:
		return e.ExpiringSoon
	case ExpiryCurrent:
		return !e.Expired && !e.ExpiringSoon
	default:
		return true
	}
}

func ParseExpiryBucket(s string) (ExpiryBucket, error) {
	switch b := ExpiryBucket(s); b {
	case ExpiryAny, ExpiryExpired, ExpiryExpiringSoon, ExpiryCurrent:
		return b, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "expiry").WithDetail("value", s)
}
