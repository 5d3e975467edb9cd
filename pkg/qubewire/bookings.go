package qubewire

import "github.com/reelwire/dcpflow-backend/pkg/enums"

// DCPDelivery is one theatre-bound delivery inside a booking request.
type DCPDelivery struct {
	TheatreID     string   `json:"theatreId"`
	CplIDs        []string `json:"cplIds"`
	DeliverBefore string   `json:"deliverBefore"`
	DeliveryMode  string   `json:"deliveryMode"`
	StatusEmails  []string `json:"statusEmails,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// CreateBookingsRequest is the POST /v1/bookings payload.
type CreateBookingsRequest struct {
	ClientReferenceID string        `json:"clientReferenceId"`
	DCPDeliveries     []DCPDelivery `json:"dcpDeliveries"`
}

// BookedDelivery echoes a requested delivery with the identifiers the wire
// service assigned to it.
type BookedDelivery struct {
	DCPDelivery
	DCPDeliveryID string `json:"dcpDeliveryId"`
	Status        string `json:"status"`
}

// CreateBookingsResponse is the POST /v1/bookings response body.
type CreateBookingsResponse struct {
	ClientReferenceID string           `json:"clientReferenceId,omitempty"`
	DCPDeliveries     []BookedDelivery `json:"dcpDeliveries"`
}

// DeliveryRecord is one row from GET /v1/bookings/dcps.
type DeliveryRecord struct {
	DCPDeliveryID   string               `json:"dcpDeliveryId"`
	BookingID       string               `json:"booking_id,omitempty"`
	TheatreID       string               `json:"theatreId"`
	TheatreName     string               `json:"theatreName"`
	Status          enums.DeliveryStatus `json:"status"`
	Progress        *int                 `json:"progress,omitempty"`
	DeliveryType    string               `json:"deliveryType,omitempty"`
	DeliveryDetails string               `json:"deliveryDetails,omitempty"`
}

// Ref returns the best available identifier for matching against local orders.
func (r DeliveryRecord) Ref() string {
	if r.DCPDeliveryID != "" {
		return r.DCPDeliveryID
	}
	return r.BookingID
}
