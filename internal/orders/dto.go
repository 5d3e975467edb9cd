package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// Filters describe the inputs supported by the orders list.
type Filters struct {
	ContentID string
	StudioID  string
	Operation *enums.Operation
	Booked    *bool
	Query     string
}

// OrderSummary exposes the fields returned in the orders list.
type OrderSummary struct {
	ID               uuid.UUID       `json:"id"`
	ContentID        string          `json:"content_id"`
	ContentTitle     string          `json:"content_title"`
	PackageUUID      string          `json:"package_uuid"`
	TheatreID        string          `json:"theatre_id"`
	TheatreName      string          `json:"theatre_name"`
	TheatreCity      *string         `json:"theatre_city,omitempty"`
	TheatreState     *string         `json:"theatre_state,omitempty"`
	TheatreCountry   *string         `json:"theatre_country,omitempty"`
	StudioID         string          `json:"studio_id"`
	StudioName       string          `json:"studio_name"`
	QWCompanyID      string          `json:"qw_company_id"`
	QWCompanyName    string          `json:"qw_company_name"`
	PlaydateBegin    string          `json:"playdate_begin"`
	PlaydateEnd      string          `json:"playdate_end"`
	Operation        enums.Operation `json:"operation"`
	DeliveryMethod   *string         `json:"delivery_method,omitempty"`
	BookingRef       *string         `json:"booking_ref,omitempty"`
	BookingCreatedAt *time.Time      `json:"booking_created_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StudioCompany is a distinct (studio, wire company) pair seen in the feed.
type StudioCompany struct {
	StudioID      string `json:"studio_id"`
	StudioName    string `json:"studio_name"`
	QWCompanyID   string `json:"qw_company_id"`
	QWCompanyName string `json:"qw_company_name"`
}

func summaryFromModel(o models.Order) OrderSummary {
	return OrderSummary{
		ID:               o.ID,
		ContentID:        o.ContentID,
		ContentTitle:     o.ContentTitle,
		PackageUUID:      o.PackageUUID,
		TheatreID:        o.TheatreID,
		TheatreName:      o.TheatreName,
		TheatreCity:      o.TheatreCity,
		TheatreState:     o.TheatreState,
		TheatreCountry:   o.TheatreCountry,
		StudioID:         o.StudioID,
		StudioName:       o.StudioName,
		QWCompanyID:      o.QWCompanyID,
		QWCompanyName:    o.QWCompanyName,
		PlaydateBegin:    o.PlaydateBegin,
		PlaydateEnd:      o.PlaydateEnd,
		Operation:        o.Operation,
		DeliveryMethod:   o.DeliveryMethod,
		BookingRef:       o.BookingRef,
		BookingCreatedAt: o.BookingCreatedAt,
		CreatedAt:        o.CreatedAt,
	}
}
