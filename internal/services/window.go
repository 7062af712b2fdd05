package services

import "time"

// WindowClass is the temporal admission classification of one attempt.
type WindowClass string

const (
	WindowOnTime        WindowClass = "ON_TIME"
	WindowTooEarly      WindowClass = "TOO_EARLY"
	WindowTooLate       WindowClass = "TOO_LATE"
	WindowIndeterminate WindowClass = "INDETERMINATE"
)

// ClassifyWindow classifies the Cloudflare-attested challenge timestamp
// against the room's window. The server's receive time is never used here:
// the attested timestamp is the authoritative submission time, so a
// participant cannot forge a favorable local clock.
//
// Comparisons are strict: a submission exactly at opensAt or closesAt is on
// time. A nil timestamp (verification never completed) is Indeterminate and
// must be rejected by the caller, never coerced to a real classification.
func ClassifyWindow(challengeTS *time.Time, opensAt, closesAt time.Time) WindowClass {
	if challengeTS == nil {
		return WindowIndeterminate
	}
	if challengeTS.Before(opensAt) {
		return WindowTooEarly
	}
	if challengeTS.After(closesAt) {
		return WindowTooLate
	}
	return WindowOnTime
}
