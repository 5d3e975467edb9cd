package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/reelwire/dcpflow-backend/pkg/config"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Parser turns the raw booking feed into validated rows. Limits are enforced
// before anything touches the store; one bad row rejects the whole upload.
type Parser struct {
	maxBytes int64
	maxRows  int
}

func NewParser(cfg config.UploadConfig) *Parser {
	return &Parser{maxBytes: cfg.MaxCSVBytes, maxRows: cfg.MaxCSVRows}
}

// Parse reads comma-separated text with a header row first. Quoted fields may
// contain commas and doubled quotes. Row numbers in errors are 1-based and
// exclude the header.
func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	limited := &io.LimitedReader{R: r, N: p.maxBytes + 1}
	reader := csv.NewReader(limited)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv is empty")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading csv header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"content_id", "content_title", "package_uuid", "theatre_id", "theatre_name", "operation"} {
		if _, ok := columns[required]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv is missing required columns").
				WithDetails(map[string]any{"column": required})
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if limited.N <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv exceeds maximum upload size").
				WithDetails(map[string]any{"max_bytes": p.maxBytes})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("row %d: malformed csv", len(rows)+1))
		}
		if len(rows) >= p.maxRows {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv exceeds maximum row count").
				WithDetails(map[string]any{"max_rows": p.maxRows})
		}

		row := rowFromRecord(columns, record)
		if err := validateRow(row, len(rows)+1); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv contains no data rows")
	}
	return rows, nil
}

func rowFromRecord(columns map[string]int, record []string) Row {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	return Row{
		OrderID:         get("order_id"),
		TMCMediaOrderID: get("tmc_media_order_id"),

		ContentID:    get("content_id"),
		ContentTitle: get("content_title"),
		PackageUUID:  get("package_uuid"),
		FilmID:       get("film_id"),
		MediaType:    get("media_type"),

		TheatreID:         get("theatre_id"),
		TheatreName:       get("theatre_name"),
		TheatreAddress1:   get("theatre_address1"),
		TheatreCity:       get("theatre_city"),
		TheatreState:      get("theatre_state"),
		TheatreCountry:    get("theatre_country"),
		TheatrePostalCode: get("theatre_postal_code"),
		TMCTheatreID:      get("tmc_theatre_id"),
		ChainName:         get("chain_name"),
		PartnerName:       get("partner_name"),

		QWIdentifier:     get("qw_identifier"),
		QWTheatreID:      get("qw_theatre_id"),
		QWTheatreName:    get("qw_theatre_name"),
		QWTheatreCity:    get("qw_theatre_city"),
		QWTheatreState:   get("qw_theatre_state"),
		QWTheatreCountry: get("qw_theatre_country"),

		StudioID:      get("studio_id"),
		StudioName:    get("studio_name"),
		QWCompanyID:   get("qw_company_id"),
		QWCompanyName: get("qw_company_name"),

		PlaydateBegin: get("playdate_begin"),
		PlaydateEnd:   get("playdate_end"),

		BookerName:  get("booker_name"),
		BookerPhone: get("booker_phone"),
		BookerEmail: get("booker_email"),

		Operation:      strings.ToLower(get("operation")),
		DeliveryMethod: get("delivery_method"),
		ReturnMethod:   get("return_method"),

		CancelFlag:          get("cancel_flag"),
		DoNotShip:           get("do_not_ship"),
		HoldKeyFlag:         get("hold_key_flag"),
		IsNoKey:             get("is_no_key"),
		ShipHoldType:        get("ship_hold_type"),
		ScreeningTime:       get("screening_time"),
		ScreeningScreenNo:   get("screening_screen_no"),
		TrackingID:          get("tracking_id"),
		WiretapSerialNumber: get("wiretap_serial_number"),
		Note:                get("note"),
	}
}

func validateRow(row Row, rowNumber int) error {
	err := validate.Struct(row)
	if err == nil {
		return nil
	}

	details := map[string]any{"row": rowNumber}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = validationMessage(fe)
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d is invalid", rowNumber)).
		WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}
