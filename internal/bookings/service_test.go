package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/internal/distributors"
	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/pkg/config"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/metrics"
	"github.com/reelwire/dcpflow-backend/pkg/pagination"
	"github.com/reelwire/dcpflow-backend/pkg/qubewire"
	"gorm.io/gorm"
)

type bookingRefWrite struct {
	orderID    uuid.UUID
	bookingRef string
}

type stubBookingOrders struct {
	byContent   map[string][]models.Order
	refWrites   []bookingRefWrite
	refErrFor   map[uuid.UUID]error
	listErr     error
}

func (s *stubBookingOrders) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubBookingOrders) CreateBatch(ctx context.Context, batch []models.Order) error { return nil }

func (s *stubBookingOrders) List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubBookingOrders) ListAll(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var all []models.Order
	for _, group := range s.byContent {
		all = append(all, group...)
	}
	return all, s.listErr
}

func (s *stubBookingOrders) ListByContent(ctx context.Context, userID uuid.UUID, contentID string) ([]models.Order, error) {
	return s.byContent[contentID], s.listErr
}

func (s *stubBookingOrders) ListContentIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var ids []string
	for id := range s.byContent {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubBookingOrders) SetBookingRef(ctx context.Context, orderID uuid.UUID, bookingRef string, bookedAt time.Time) error {
	if err, ok := s.refErrFor[orderID]; ok {
		return err
	}
	s.refWrites = append(s.refWrites, bookingRefWrite{orderID: orderID, bookingRef: bookingRef})
	return nil
}

func (s *stubBookingOrders) DistinctStudioCompanies(ctx context.Context, userID uuid.UUID) ([]orders.StudioCompany, error) {
	return nil, nil
}

type stubCplResolver struct {
	ids map[string][]string
}

func (s *stubCplResolver) MergedCplIDs(ctx context.Context, userID uuid.UUID, contentID string) ([]string, error) {
	return s.ids[contentID], nil
}

type stubCredentialResolver struct {
	resolutions map[distributors.Pair]distributors.Resolution
}

func (s *stubCredentialResolver) Resolve(ctx context.Context, pairs []distributors.Pair) (map[distributors.Pair]distributors.Resolution, error) {
	out := make(map[distributors.Pair]distributors.Resolution, len(pairs))
	for _, pair := range pairs {
		out[pair] = s.resolutions[pair]
	}
	return out, nil
}

type wireCall struct {
	token string
	req   qubewire.CreateBookingsRequest
}

type stubWire struct {
	mu           sync.Mutex
	calls        []wireCall
	responseFor  map[string]*qubewire.CreateBookingsResponse
	createErrFor map[string]error

	listCalls  []string
	recordsFor map[string][]qubewire.DeliveryRecord
	listErrFor map[string]error
}

func (s *stubWire) CreateBookings(ctx context.Context, token string, req qubewire.CreateBookingsRequest) (*qubewire.CreateBookingsResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, wireCall{token: token, req: req})
	s.mu.Unlock()
	if err, ok := s.createErrFor[token]; ok {
		return nil, err
	}
	if resp, ok := s.responseFor[token]; ok {
		return resp, nil
	}
	// Echo back one delivery id per requested delivery.
	resp := &qubewire.CreateBookingsResponse{}
	for i, d := range req.DCPDeliveries {
		resp.DCPDeliveries = append(resp.DCPDeliveries, qubewire.BookedDelivery{
			DCPDelivery:   d,
			DCPDeliveryID: token + "-dcp-" + string(rune('a'+i)),
			Status:        "pending",
		})
	}
	return resp, nil
}

func (s *stubWire) ListDeliveries(ctx context.Context, token, contentID string) ([]qubewire.DeliveryRecord, error) {
	s.mu.Lock()
	s.listCalls = append(s.listCalls, token)
	s.mu.Unlock()
	if err, ok := s.listErrFor[token]; ok {
		return nil, err
	}
	return s.recordsFor[token], nil
}

func newBookingService(ordersRepo orders.Repository, cpl cplResolver, creds credentialResolver, wire wireClient) *Service {
	return NewService(
		ordersRepo,
		cpl,
		creds,
		wire,
		config.QubeWireConfig{PollConcurrency: 2},
		metrics.NewOpMetrics(nil),
		logger.New(logger.Options{ServiceName: "dcpflow-test"}),
	)
}

func pendingOrder(contentID, theatreID, studioID, companyID string) models.Order {
	return models.Order{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ContentID:     contentID,
		ContentTitle:  "Feature " + contentID,
		PackageUUID:   "pkg-" + contentID,
		TheatreID:     theatreID,
		TheatreName:   "Theatre " + theatreID,
		StudioID:      studioID,
		StudioName:    "Studio " + studioID,
		QWCompanyID:   companyID,
		QWCompanyName: "Company " + companyID,
		PlaydateBegin: "2026-10-01",
		PlaydateEnd:   "2026-10-14",
		Operation:     "insert",
	}
}

func bookedOrder(contentID, theatreID, studioID, companyID, ref string) models.Order {
	order := pendingOrder(contentID, theatreID, studioID, companyID)
	order.BookingRef = &ref
	bookedAt := time.Now().Add(-time.Hour)
	order.BookingCreatedAt = &bookedAt
	return order
}

func okResolution(token string) distributors.Resolution {
	return distributors.Resolution{
		Distributor: &models.Distributor{ID: uuid.New()},
		Token:       token,
	}
}
