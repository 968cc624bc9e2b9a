package utils

import "time"

// NowRFC3339 returns the current time in RFC3339 format, the timestamp form
// used in every response envelope.
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
