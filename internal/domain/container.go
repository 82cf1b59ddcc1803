package domain

import "time"

type ContainerStatus string

const (
	ContainerStatusAvailable  ContainerStatus = "AVAILABLE"
	ContainerStatusCheckedOut ContainerStatus = "CHECKED_OUT"
	ContainerStatusLate       ContainerStatus = "LATE"
	ContainerStatusInCleaning ContainerStatus = "IN_CLEANING"
	ContainerStatusDamaged    ContainerStatus = "DAMAGED"
	ContainerStatusRetired    ContainerStatus = "RETIRED"
)

type ContainerCondition string

const (
	ContainerConditionGood ContainerCondition = "Good"
	ContainerConditionFair ContainerCondition = "Fair"
	ContainerConditionPoor ContainerCondition = "Poor"
)

// Container is a physical reusable container tracked by its canonical
// DRC-<LOC>-<NNNN> identifier. CurrentHolder and DueAt are set together on
// checkout and cleared together on return, never one without the other.
// LATE is never stored; it is derived from DueAt at read time.
type Container struct {
	ContainerID   string             `json:"container_id"`
	RFIDTag       string             `json:"rfid_tag"`
	Status        ContainerStatus    `json:"status"`
	CurrentHolder *string            `json:"current_holder,omitempty"` // net-id
	DueAt         *time.Time         `json:"due_at,omitempty"`
	LocationCode  string             `json:"location_code"`
	CheckoutCount int32              `json:"checkout_count"`
	Condition     ContainerCondition `json:"condition"`
	CreatedOn     time.Time          `json:"created_on"`
	UpdatedOn     time.Time          `json:"updated_on"`
}
