package service

import (
	"time"
)

// GetExpiresAt converts a provider TTL into an absolute expiry. Providers
// that send no TTL yield the zero time, stored as NULL so the token is never
// treated as expiring.
func GetExpiresAt(expiresIn int) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
