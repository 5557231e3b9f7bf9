package shortener

import "time"

// EvaluateExpiry decides whether link may still be served at now.
//
// An inactive link is reported expired with no change. An active link whose
// expiry is strictly before now is deactivated in place and reported as both
// expired and mutated, so the caller knows to persist it. A link without an
// expiry never expires.
func EvaluateExpiry(link *Link, now time.Time) (expired, mutated bool) {
	if !link.IsActive {
		return true, false
	}
	if link.ExpiresAt != nil && link.ExpiresAt.Before(now) {
		link.IsActive = false
		return true, true
	}
	return false, false
}
