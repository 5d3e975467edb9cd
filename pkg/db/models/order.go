package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// Order is one theatrical delivery instruction ingested from the booking feed.
// Content fields are immutable after upload; only the booking reference and
// its timestamp are written back afterwards.
type Order struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	OrderID         *string `gorm:"column:order_id"`
	TMCMediaOrderID *string `gorm:"column:tmc_media_order_id"`

	ContentID    string  `gorm:"column:content_id;not null;index"`
	ContentTitle string  `gorm:"column:content_title;not null"`
	PackageUUID  string  `gorm:"column:package_uuid;not null"`
	FilmID       *string `gorm:"column:film_id"`
	MediaType    *string `gorm:"column:media_type"`

	TheatreID         string  `gorm:"column:theatre_id;not null"`
	TheatreName       string  `gorm:"column:theatre_name;not null"`
	TheatreAddress1   *string `gorm:"column:theatre_address1"`
	TheatreCity       *string `gorm:"column:theatre_city"`
	TheatreState      *string `gorm:"column:theatre_state"`
	TheatreCountry    *string `gorm:"column:theatre_country"`
	TheatrePostalCode *string `gorm:"column:theatre_postal_code"`
	TMCTheatreID      *string `gorm:"column:tmc_theatre_id"`
	ChainName         *string `gorm:"column:chain_name"`
	PartnerName       *string `gorm:"column:partner_name"`

	QWIdentifier     *string `gorm:"column:qw_identifier"`
	QWTheatreID      *string `gorm:"column:qw_theatre_id"`
	QWTheatreName    *string `gorm:"column:qw_theatre_name"`
	QWTheatreCity    *string `gorm:"column:qw_theatre_city"`
	QWTheatreState   *string `gorm:"column:qw_theatre_state"`
	QWTheatreCountry *string `gorm:"column:qw_theatre_country"`

	StudioID      string `gorm:"column:studio_id;not null"`
	StudioName    string `gorm:"column:studio_name;not null"`
	QWCompanyID   string `gorm:"column:qw_company_id;not null"`
	QWCompanyName string `gorm:"column:qw_company_name;not null"`

	PlaydateBegin string `gorm:"column:playdate_begin;not null"`
	PlaydateEnd   string `gorm:"column:playdate_end;not null"`

	BookerName  *string `gorm:"column:booker_name"`
	BookerPhone *string `gorm:"column:booker_phone"`
	BookerEmail *string `gorm:"column:booker_email"`

	Operation      enums.Operation `gorm:"column:operation;type:text;not null"`
	DeliveryMethod *string         `gorm:"column:delivery_method"`
	ReturnMethod   *string         `gorm:"column:return_method"`

	CancelFlag          *string `gorm:"column:cancel_flag"`
	DoNotShip           *string `gorm:"column:do_not_ship"`
	HoldKeyFlag         *string `gorm:"column:hold_key_flag"`
	IsNoKey             *string `gorm:"column:is_no_key"`
	ShipHoldType        *string `gorm:"column:ship_hold_type"`
	ScreeningTime       *string `gorm:"column:screening_time"`
	ScreeningScreenNo   *string `gorm:"column:screening_screen_no"`
	TrackingID          *string `gorm:"column:tracking_id"`
	WiretapSerialNumber *string `gorm:"column:wiretap_serial_number"`
	Note                *string `gorm:"column:note"`

	BookingRef       *string    `gorm:"column:booking_ref"`
	BookingCreatedAt *time.Time `gorm:"column:booking_created_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Booked reports whether the order already carries a wire booking reference.
func (o Order) Booked() bool {
	return o.BookingRef != nil && *o.BookingRef != ""
}
