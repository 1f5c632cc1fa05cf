package model

import "strings"

// Status represents the lifecycle state of a report
type Status string

const (
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusAssigned        Status = "ASSIGNED"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusResolved        Status = "RESOLVED"
	StatusRejected        Status = "REJECTED"
	StatusSuspended       Status = "SUSPENDED"
)

// AllStatuses lists every valid report status in declaration order
var AllStatuses = []Status{
	StatusPendingApproval,
	StatusAssigned,
	StatusInProgress,
	StatusResolved,
	StatusRejected,
	StatusSuspended,
}

// ParseStatus maps a raw string to its canonical Status. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseStatus(input string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(input)))
	for _, status := range AllStatuses {
		if candidate == status {
			return status, nil
		}
	}
	return "", &InvalidStatusError{Input: input}
}

// Report categories
const (
	CategoryWaterSupply    = "WATER_SUPPLY"
	CategoryPublicLighting = "PUBLIC_LIGHTING"
	CategoryWaste          = "WASTE"
	CategoryRoads          = "ROADS"
	CategoryOther          = "OTHER"
)
