package cache

import (
	"crypto/sha256"
	"fmt"
)

// EstimateKey identifies a cached travel estimate for an ordered address pair.
// Addresses are hashed so free text never ends up in key names.
func EstimateKey(origin, destination string) string {
	sum := sha256.Sum256([]byte(origin + "\x00" + destination))
	return fmt.Sprintf("travel:estimate:%x", sum[:16])
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
