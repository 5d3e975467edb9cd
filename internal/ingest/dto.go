package ingest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// Row is one parsed CSV data row, keyed by the feed's column names.
// Validation happens once here at the ingestion boundary; downstream code
// works with models.Order and never re-checks shape.
type Row struct {
	OrderID         string `json:"order_id" validate:"omitempty,max=500"`
	TMCMediaOrderID string `json:"tmc_media_order_id" validate:"omitempty,max=500"`

	ContentID    string `json:"content_id" validate:"required,max=500"`
	ContentTitle string `json:"content_title" validate:"required,max=500"`
	PackageUUID  string `json:"package_uuid" validate:"required,max=500"`
	FilmID       string `json:"film_id" validate:"omitempty,max=500"`
	MediaType    string `json:"media_type" validate:"omitempty,max=500"`

	TheatreID         string `json:"theatre_id" validate:"required,max=500"`
	TheatreName       string `json:"theatre_name" validate:"required,max=500"`
	TheatreAddress1   string `json:"theatre_address1" validate:"omitempty,max=500"`
	TheatreCity       string `json:"theatre_city" validate:"omitempty,max=500"`
	TheatreState      string `json:"theatre_state" validate:"omitempty,max=500"`
	TheatreCountry    string `json:"theatre_country" validate:"omitempty,max=500"`
	TheatrePostalCode string `json:"theatre_postal_code" validate:"omitempty,max=500"`
	TMCTheatreID      string `json:"tmc_theatre_id" validate:"omitempty,max=500"`
	ChainName         string `json:"chain_name" validate:"omitempty,max=500"`
	PartnerName       string `json:"partner_name" validate:"omitempty,max=500"`

	QWIdentifier     string `json:"qw_identifier" validate:"omitempty,max=500"`
	QWTheatreID      string `json:"qw_theatre_id" validate:"omitempty,max=500"`
	QWTheatreName    string `json:"qw_theatre_name" validate:"omitempty,max=500"`
	QWTheatreCity    string `json:"qw_theatre_city" validate:"omitempty,max=500"`
	QWTheatreState   string `json:"qw_theatre_state" validate:"omitempty,max=500"`
	QWTheatreCountry string `json:"qw_theatre_country" validate:"omitempty,max=500"`

	// Studio and wire-company halves may be absent; such orders ingest fine
	// but are skipped (and reported) at submission time.
	StudioID      string `json:"studio_id" validate:"omitempty,max=500"`
	StudioName    string `json:"studio_name" validate:"omitempty,max=500"`
	QWCompanyID   string `json:"qw_company_id" validate:"omitempty,max=500"`
	QWCompanyName string `json:"qw_company_name" validate:"omitempty,max=500"`

	PlaydateBegin string `json:"playdate_begin" validate:"omitempty,max=500"`
	PlaydateEnd   string `json:"playdate_end" validate:"omitempty,max=500"`

	BookerName  string `json:"booker_name" validate:"omitempty,max=500"`
	BookerPhone string `json:"booker_phone" validate:"omitempty,max=500"`
	BookerEmail string `json:"booker_email" validate:"omitempty,email,max=500"`

	Operation      string `json:"operation" validate:"required,oneof=insert update cancel"`
	DeliveryMethod string `json:"delivery_method" validate:"omitempty,max=500"`
	ReturnMethod   string `json:"return_method" validate:"omitempty,max=500"`

	CancelFlag          string `json:"cancel_flag" validate:"omitempty,max=500"`
	DoNotShip           string `json:"do_not_ship" validate:"omitempty,max=500"`
	HoldKeyFlag         string `json:"hold_key_flag" validate:"omitempty,max=500"`
	IsNoKey             string `json:"is_no_key" validate:"omitempty,max=500"`
	ShipHoldType        string `json:"ship_hold_type" validate:"omitempty,max=500"`
	ScreeningTime       string `json:"screening_time" validate:"omitempty,max=500"`
	ScreeningScreenNo   string `json:"screening_screen_no" validate:"omitempty,max=500"`
	TrackingID          string `json:"tracking_id" validate:"omitempty,max=500"`
	WiretapSerialNumber string `json:"wiretap_serial_number" validate:"omitempty,max=500"`
	Note                string `json:"note" validate:"omitempty,max=500"`
}

// ToOrder materialises the row as an Order owned by the uploading user.
func (r Row) ToOrder(userID uuid.UUID) models.Order {
	return models.Order{
		UserID:          userID,
		OrderID:         optional(r.OrderID),
		TMCMediaOrderID: optional(r.TMCMediaOrderID),

		ContentID:    r.ContentID,
		ContentTitle: r.ContentTitle,
		PackageUUID:  r.PackageUUID,
		FilmID:       optional(r.FilmID),
		MediaType:    optional(r.MediaType),

		TheatreID:         r.TheatreID,
		TheatreName:       r.TheatreName,
		TheatreAddress1:   optional(r.TheatreAddress1),
		TheatreCity:       optional(r.TheatreCity),
		TheatreState:      optional(r.TheatreState),
		TheatreCountry:    optional(r.TheatreCountry),
		TheatrePostalCode: optional(r.TheatrePostalCode),
		TMCTheatreID:      optional(r.TMCTheatreID),
		ChainName:         optional(r.ChainName),
		PartnerName:       optional(r.PartnerName),

		QWIdentifier:     optional(r.QWIdentifier),
		QWTheatreID:      optional(r.QWTheatreID),
		QWTheatreName:    optional(r.QWTheatreName),
		QWTheatreCity:    optional(r.QWTheatreCity),
		QWTheatreState:   optional(r.QWTheatreState),
		QWTheatreCountry: optional(r.QWTheatreCountry),

		StudioID:      r.StudioID,
		StudioName:    r.StudioName,
		QWCompanyID:   r.QWCompanyID,
		QWCompanyName: r.QWCompanyName,

		PlaydateBegin: r.PlaydateBegin,
		PlaydateEnd:   r.PlaydateEnd,

		BookerName:  optional(r.BookerName),
		BookerPhone: optional(r.BookerPhone),
		BookerEmail: optional(r.BookerEmail),

		Operation:      enums.Operation(r.Operation),
		DeliveryMethod: optional(r.DeliveryMethod),
		ReturnMethod:   optional(r.ReturnMethod),

		CancelFlag:          optional(r.CancelFlag),
		DoNotShip:           optional(r.DoNotShip),
		HoldKeyFlag:         optional(r.HoldKeyFlag),
		IsNoKey:             optional(r.IsNoKey),
		ShipHoldType:        optional(r.ShipHoldType),
		ScreeningTime:       optional(r.ScreeningTime),
		ScreeningScreenNo:   optional(r.ScreeningScreenNo),
		TrackingID:          optional(r.TrackingID),
		WiretapSerialNumber: optional(r.WiretapSerialNumber),
		Note:                optional(r.Note),
	}
}

// Result summarises a successful upload by operation tag.
type Result struct {
	Total     int `json:"total"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Cancelled int `json:"cancelled"`
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
