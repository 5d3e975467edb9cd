package bookings

import (
	"time"

	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// ContentSummary is the per-content aggregation of the order feed.
type ContentSummary struct {
	ContentID         string                        `json:"content_id"`
	ContentTitle      string                        `json:"content_title"`
	PackageUUID       string                        `json:"package_uuid"`
	BookingCount      int                           `json:"booking_count"`
	PendingBookings   int                           `json:"pending_bookings"`
	StatusCounts      map[enums.DisplayStatus]int   `json:"status_counts"`
	CompletionPercent int                           `json:"completion_percent"`
	CplIDs            []string                      `json:"cpl_ids"`
	LastUpdated       time.Time                     `json:"last_updated"`
}

// SkippedOrder identifies a pending order excluded from submission because
// its studio/company key is incomplete.
type SkippedOrder struct {
	OrderID     string `json:"order_id"`
	TheatreID   string `json:"theatre_id"`
	TheatreName string `json:"theatre_name"`
}

// DistributorFailure names one distributor group whose submission failed.
type DistributorFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SubmitReport aggregates the outcome of one submit action across all
// distributor partitions. Partitions fail independently; created bookings
// are never rolled back because a sibling partition failed.
type SubmitReport struct {
	ContentID string               `json:"content_id"`
	NoPending bool                 `json:"no_pending"`
	Created   int                  `json:"created"`
	Failed    []DistributorFailure `json:"failed,omitempty"`
	Skipped   []SkippedOrder       `json:"skipped,omitempty"`
}

// DeliveryView is one order's delivery status, merged from local state and
// the wire service when a poll succeeds.
type DeliveryView struct {
	OrderID         string              `json:"order_id"`
	TheatreID       string              `json:"theatre_id"`
	TheatreName     string              `json:"theatre_name"`
	TheatreCity     *string             `json:"theatre_city,omitempty"`
	TheatreState    *string             `json:"theatre_state,omitempty"`
	BookingRef      *string             `json:"booking_ref,omitempty"`
	Status          enums.DisplayStatus `json:"status"`
	Progress        *int                `json:"progress,omitempty"`
	DeliveryType    string              `json:"delivery_type,omitempty"`
	DeliveryDetails string              `json:"delivery_details,omitempty"`
	Matched         bool                `json:"matched"`
}

// DeliveriesResult carries the merged delivery view for one content id.
// Degraded means at least one external poll failed and the statuses fall
// back to local inference.
type DeliveriesResult struct {
	ContentID  string         `json:"content_id"`
	Deliveries []DeliveryView `json:"deliveries"`
	Degraded   bool           `json:"degraded"`
	Warnings   []string       `json:"warnings,omitempty"`
}
