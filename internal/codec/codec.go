package codec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"drc-backend/internal/domain"
)

// Prefix is the fixed leading segment of every container identifier.
const Prefix = "DRC"

// PayloadVersion is the envelope version this codec emits.
const PayloadVersion = "1.0"

var (
	containerIDPattern  = regexp.MustCompile(`^DRC-([A-Z]+)-(\d+)$`)
	locationCodePattern = regexp.MustCompile(`^[A-Z]{2,4}$`)
)

// ContainerID is the parsed form of a canonical DRC-<LOC>-<NNNN> identifier.
type ContainerID struct {
	LocationCode string
	Sequence     int
}

// String renders the canonical form. The sequence is zero-padded to four
// digits; sequences beyond 9999 are simply wider, never truncated.
func (id ContainerID) String() string {
	return fmt.Sprintf("%s-%s-%04d", Prefix, id.LocationCode, id.Sequence)
}

// ParseContainerID parses a canonical container identifier. It returns
// domain.ErrInvalidFormat when the string does not match the pattern.
func ParseContainerID(s string) (ContainerID, error) {
	m := containerIDPattern.FindStringSubmatch(s)
	if m == nil {
		return ContainerID{}, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, s)
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return ContainerID{}, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, s)
	}
	return ContainerID{LocationCode: m[1], Sequence: seq}, nil
}

// ValidLocationCode reports whether code is 2-4 uppercase letters.
func ValidLocationCode(code string) bool {
	return locationCodePattern.MatchString(code)
}

// GenerateIDRange produces count consecutive identifiers for a location
// starting at start. Pure; used by bulk registration and the demo seeder.
func GenerateIDRange(locationCode string, start, count int) ([]ContainerID, error) {
	if !ValidLocationCode(locationCode) {
		return nil, fmt.Errorf("%w: location code %q", domain.ErrInvalidFormat, locationCode)
	}
	if start < 1 {
		return nil, fmt.Errorf("%w: start must be >= 1, got %d", domain.ErrInvalidFormat, start)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be >= 1, got %d", domain.ErrInvalidFormat, count)
	}
	ids := make([]ContainerID, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, ContainerID{LocationCode: locationCode, Sequence: start + i})
	}
	return ids, nil
}

// PayloadKind is the category of identifier carried by a QR or RFID payload.
type PayloadKind string

const (
	PayloadKindContainer PayloadKind = "container"
	PayloadKindUser      PayloadKind = "user"
)

// Payload is the versioned envelope carried by QR images and RFID tags.
type Payload struct {
	Kind    PayloadKind
	ID      string
	Version string
}

// envelope is the exact wire shape. Exactly one of ContainerID/UserID is set
// depending on Type.
type envelope struct {
	ContainerID string `json:"containerId,omitempty"`
	UserID      string `json:"userId,omitempty"`
	Type        string `json:"type"`
	Version     string `json:"version"`
}

// EncodePayload serializes the envelope for the given identifier kind.
func EncodePayload(kind PayloadKind, id string) (string, error) {
	env := envelope{Type: string(kind), Version: PayloadVersion}
	switch kind {
	case PayloadKindContainer:
		env.ContainerID = id
	case PayloadKindUser:
		env.UserID = id
	default:
		return "", fmt.Errorf("%w: unknown payload kind %q", domain.ErrInvalidFormat, kind)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(data), nil
}

// DecodePayload decodes a scanned string. It first attempts the structured
// envelope; unknown future versions are accepted as long as the type is one
// of the two known kinds. On structural failure it falls back to recognizing
// a bare container identifier (legacy plain-text codes). A nil result means
// "not a valid scan", not a fatal error.
func DecodePayload(raw string) *Payload {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Type != "" {
		switch PayloadKind(env.Type) {
		case PayloadKindContainer:
			if env.ContainerID == "" {
				return nil
			}
			return &Payload{Kind: PayloadKindContainer, ID: env.ContainerID, Version: env.Version}
		case PayloadKindUser:
			if env.UserID == "" {
				return nil
			}
			return &Payload{Kind: PayloadKindUser, ID: env.UserID, Version: env.Version}
		default:
			// Structured payload of an unknown type is rejected outright,
			// the legacy fallback must not mask it.
			return nil
		}
	}

	if strings.HasPrefix(raw, Prefix+"-") {
		return &Payload{Kind: PayloadKindContainer, ID: raw, Version: PayloadVersion}
	}
	return nil
}
