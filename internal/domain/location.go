package domain

import "time"

type LocationType string

const (
	LocationTypeDiningHall       LocationType = "DINING_HALL"
	LocationTypeReturnStation    LocationType = "RETURN_STATION"
	LocationTypeCleaningFacility LocationType = "CLEANING_FACILITY"
)

// ReturnPolicy decides where a returned container lands: straight back on the
// shelf, or into the cleaning queue first. Configurable per location.
type ReturnPolicy string

const (
	ReturnPolicyAvailable ReturnPolicy = "AVAILABLE"
	ReturnPolicyCleaning  ReturnPolicy = "IN_CLEANING"
)

type Location struct {
	Code         string       `json:"code"` // 2-4 uppercase letters, e.g. MKT
	Name         string       `json:"name"`
	Type         LocationType `json:"type"`
	Address      string       `json:"address,omitempty"`
	Hours        string       `json:"hours,omitempty"`
	Capacity     int32        `json:"capacity"`
	ReturnPolicy ReturnPolicy `json:"return_policy"`
	IsActive     bool         `json:"is_active"`
	CreatedOn    time.Time    `json:"created_on"`
}

// InventorySummary is the per-location count of containers by effective status.
type InventorySummary struct {
	LocationCode string                    `json:"location_code"`
	Total        int32                     `json:"total"`
	ByStatus     map[ContainerStatus]int32 `json:"by_status"`
}
