package enums

import "fmt"

// DeliveryStatus is the vocabulary the wire API reports per delivery.
type DeliveryStatus string

const (
	DeliveryStatusPending     DeliveryStatus = "pending"
	DeliveryStatusShipped     DeliveryStatus = "shipped"
	DeliveryStatusDownloading DeliveryStatus = "downloading"
	DeliveryStatusCompleted   DeliveryStatus = "completed"
	DeliveryStatusDelivered   DeliveryStatus = "delivered"
	DeliveryStatusCancelled   DeliveryStatus = "cancelled"
	DeliveryStatusFailed      DeliveryStatus = "failed"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusShipped,
	DeliveryStatusDownloading,
	DeliveryStatusCompleted,
	DeliveryStatusDelivered,
	DeliveryStatusCancelled,
	DeliveryStatusFailed,
}

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts a raw string into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}

// DisplayStatus is the vocabulary shown to staff in the dashboard.
type DisplayStatus string

const (
	DisplayStatusPending     DisplayStatus = "pending"
	DisplayStatusShipped     DisplayStatus = "shipped"
	DisplayStatusDownloading DisplayStatus = "downloading"
	DisplayStatusDelivered   DisplayStatus = "delivered"
	DisplayStatusDownloaded  DisplayStatus = "downloaded"
	DisplayStatusCancelled   DisplayStatus = "cancelled"
)

var validDisplayStatuses = []DisplayStatus{
	DisplayStatusPending,
	DisplayStatusShipped,
	DisplayStatusDownloading,
	DisplayStatusDelivered,
	DisplayStatusDownloaded,
	DisplayStatusCancelled,
}

// String implements fmt.Stringer.
func (s DisplayStatus) String() string {
	return string(s)
}

// IsValid reports whether the display status is recognized.
func (s DisplayStatus) IsValid() bool {
	for _, candidate := range validDisplayStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// DisplayFor folds the wire vocabulary onto the dashboard vocabulary.
// Both cancelled and failed collapse to the cancelled display state.
func DisplayFor(status DeliveryStatus) DisplayStatus {
	switch status {
	case DeliveryStatusPending:
		return DisplayStatusPending
	case DeliveryStatusShipped:
		return DisplayStatusShipped
	case DeliveryStatusDownloading:
		return DisplayStatusDownloading
	case DeliveryStatusCompleted:
		return DisplayStatusDownloaded
	case DeliveryStatusDelivered:
		return DisplayStatusDelivered
	case DeliveryStatusCancelled, DeliveryStatusFailed:
		return DisplayStatusCancelled
	default:
		return DisplayStatusPending
	}
}
