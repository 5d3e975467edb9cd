package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelwire/dcpflow-backend/pkg/config"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
)

const feedHeader = "order_id,content_id,content_title,package_uuid,theatre_id,theatre_name,studio_id,studio_name,qw_company_id,qw_company_name,playdate_begin,playdate_end,booker_email,operation"

func newTestParser(maxBytes int64, maxRows int) *Parser {
	return NewParser(config.UploadConfig{MaxCSVBytes: maxBytes, MaxCSVRows: maxRows})
}

func feedRow(overrides map[string]string) string {
	values := map[string]string{
		"order_id":       "ord-1",
		"content_id":     "CNT-100",
		"content_title":  "Test Feature",
		"package_uuid":   "pkg-uuid-1",
		"theatre_id":     "th-1",
		"theatre_name":   "Downtown 12",
		"studio_id":      "st-1",
		"studio_name":    "Studio One",
		"qw_company_id":  "qw-1",
		"qw_company_name": "Wire Co",
		"playdate_begin": "2026-10-01",
		"playdate_end":   "2026-10-14",
		"booker_email":   "booker@example.com",
		"operation":      "insert",
	}
	for k, v := range overrides {
		values[k] = v
	}
	columns := strings.Split(feedHeader, ",")
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, values[col])
	}
	return strings.Join(parts, ",")
}

func TestParse_ValidFeed(t *testing.T) {
	input := strings.Join([]string{
		feedHeader,
		feedRow(nil),
		feedRow(map[string]string{"order_id": "ord-2", "theatre_id": "th-2", "operation": "Cancel"}),
	}, "\n")

	rows, err := newTestParser(1<<20, 100).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "CNT-100", rows[0].ContentID)
	require.Equal(t, "insert", rows[0].Operation)
	require.Equal(t, "cancel", rows[1].Operation)
	require.Equal(t, "th-2", rows[1].TheatreID)
}

func TestParse_QuotedFields(t *testing.T) {
	input := feedHeader + "\n" +
		feedRow(map[string]string{
			"theatre_name":  `"Smith, Jones & Co"`,
			"content_title": `"The ""Big"" Picture"`,
		})

	rows, err := newTestParser(1<<20, 100).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "Smith, Jones & Co", rows[0].TheatreName)
	require.Equal(t, `The "Big" Picture`, rows[0].ContentTitle)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	input := "order_id,theatre_id\nord-1,th-1\n"

	_, err := newTestParser(1<<20, 100).Parse(strings.NewReader(input))
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestParse_InvalidEmailReportsRowNumber(t *testing.T) {
	input := strings.Join([]string{
		feedHeader,
		feedRow(nil),
		feedRow(map[string]string{"booker_email": "not-an-email"}),
	}, "\n")

	_, err := newTestParser(1<<20, 100).Parse(strings.NewReader(input))
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeValidation, coded.Code())
	require.Contains(t, coded.Message(), "row 2")

	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, 2, details["row"])
	require.Equal(t, "must be a valid email", details["booker_email"])
}

func TestParse_EmptyEmailAllowed(t *testing.T) {
	input := feedHeader + "\n" + feedRow(map[string]string{"booker_email": ""})

	rows, err := newTestParser(1<<20, 100).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Empty(t, rows[0].BookerEmail)
}

func TestParse_MissingRequiredFieldReportsRowNumber(t *testing.T) {
	input := strings.Join([]string{
		feedHeader,
		feedRow(map[string]string{"content_id": ""}),
	}, "\n")

	_, err := newTestParser(1<<20, 100).Parse(strings.NewReader(input))
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, 1, details["row"])
	require.Equal(t, "is required", details["content_id"])
}

func TestParse_RejectsUnknownOperation(t *testing.T) {
	input := feedHeader + "\n" + feedRow(map[string]string{"operation": "upsert"})

	_, err := newTestParser(1<<20, 100).Parse(strings.NewReader(input))
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	details, ok := coded.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, "must be one of insert update cancel", details["operation"])
}

func TestParse_RowLimit(t *testing.T) {
	lines := []string{feedHeader}
	for i := 0; i < 4; i++ {
		lines = append(lines, feedRow(nil))
	}

	_, err := newTestParser(1<<20, 3).Parse(strings.NewReader(strings.Join(lines, "\n")))
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum row count")
}

func TestParse_SizeLimit(t *testing.T) {
	input := feedHeader + "\n" + feedRow(nil) + "\n" + feedRow(nil)

	_, err := newTestParser(int64(len(feedHeader)+10), 100).Parse(strings.NewReader(input))
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum upload size")
}

func TestParse_EmptyInputs(t *testing.T) {
	_, err := newTestParser(1<<20, 100).Parse(strings.NewReader(""))
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")

	_, err = newTestParser(1<<20, 100).Parse(strings.NewReader(feedHeader + "\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no data rows")
}
