package domain

import "time"

// IsExpired reports whether q is past its validity date. Accepted quotations
// never expire; a quotation without a validity date never expires either.
func IsExpired(q Quotation, now time.Time) bool {
	if q.Status == StatusAccepted || q.ValidUntil.IsZero() {
		return false
	}
	return now.After(q.ValidUntil.Time)
}

// EffectiveStatus is the status shown to users: the stored status, or expired
// when IsExpired holds.
func EffectiveStatus(q Quotation, now time.Time) Status {
	if IsExpired(q, now) {
		return StatusExpired
	}
	return q.Status
}
