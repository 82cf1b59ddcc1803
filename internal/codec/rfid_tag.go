package codec

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var rfidTagPattern = regexp.MustCompile(`^RFID-?[A-Z0-9-]{8,}$`)

const rfidSuffixChars = "ABCDEF0123456789"

// GenerateRFIDTag derives a tag identifier for a container, the same shape
// the physical tags are burned with: the compacted container id plus a
// random 8-character hex suffix.
func GenerateRFIDTag(containerID string, rng *rand.Rand) string {
	compact := strings.ReplaceAll(strings.TrimPrefix(containerID, Prefix+"-"), "-", "")
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = rfidSuffixChars[rng.Intn(len(rfidSuffixChars))]
	}
	return fmt.Sprintf("RFID-%s-%s", compact, suffix)
}

// ValidateRFIDTag reports whether a tag string has a recognized shape.
func ValidateRFIDTag(tag string) bool {
	return rfidTagPattern.MatchString(tag)
}
