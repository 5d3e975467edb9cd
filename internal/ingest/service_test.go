package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/metrics"
	"github.com/reelwire/dcpflow-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	created   []models.Order
	createErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) CreateBatch(ctx context.Context, batch []models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, batch...)
	return nil
}

func (s *stubOrderRepo) List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters orders.Filters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListByContent(ctx context.Context, userID uuid.UUID, contentID string) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListContentIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return nil, nil
}

func (s *stubOrderRepo) SetBookingRef(ctx context.Context, orderID uuid.UUID, bookingRef string, bookedAt time.Time) error {
	return nil
}

func (s *stubOrderRepo) DistinctStudioCompanies(ctx context.Context, userID uuid.UUID) ([]orders.StudioCompany, error) {
	return nil, nil
}

func newTestService(repo *stubOrderRepo) *Service {
	logg := logger.New(logger.Options{ServiceName: "dcpflow-test"})
	return NewService(stubTxRunner{}, repo, newTestParser(1<<20, 100), metrics.NewOpMetrics(nil), logg)
}

func TestUpload_PersistsBatchForUser(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := newTestService(repo)
	userID := uuid.New()

	input := strings.Join([]string{
		feedHeader,
		feedRow(nil),
		feedRow(map[string]string{"order_id": "ord-2", "operation": "update"}),
		feedRow(map[string]string{"order_id": "ord-3", "operation": "cancel"}),
	}, "\n")

	result, err := svc.Upload(context.Background(), userID, "feed.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, result.Total)
	require.Equal(t, 1, result.Inserted)
	require.Equal(t, 1, result.Updated)
	require.Equal(t, 1, result.Cancelled)

	require.Len(t, repo.created, 3)
	for _, order := range repo.created {
		require.Equal(t, userID, order.UserID)
	}
	require.Equal(t, "booker@example.com", *repo.created[0].BookerEmail)
}

func TestUpload_RejectsNonCSVExtension(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := newTestService(repo)

	_, err := svc.Upload(context.Background(), uuid.New(), "feed.xlsx", strings.NewReader("x"))
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeValidation, coded.Code())
	require.Empty(t, repo.created)
}

func TestUpload_InvalidRowWritesNothing(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := newTestService(repo)

	input := strings.Join([]string{
		feedHeader,
		feedRow(nil),
		feedRow(map[string]string{"booker_email": "broken"}),
	}, "\n")

	_, err := svc.Upload(context.Background(), uuid.New(), "feed.csv", strings.NewReader(input))
	require.Error(t, err)
	require.Empty(t, repo.created)
}

func TestUpload_RepoFailureSurfacesInternal(t *testing.T) {
	repo := &stubOrderRepo{createErr: errors.New("insert failed")}
	svc := newTestService(repo)

	input := feedHeader + "\n" + feedRow(nil)

	_, err := svc.Upload(context.Background(), uuid.New(), "feed.csv", strings.NewReader(input))
	require.Error(t, err)

	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeInternal, coded.Code())
}

func TestUpload_RequiresUser(t *testing.T) {
	svc := newTestService(&stubOrderRepo{})

	_, err := svc.Upload(context.Background(), uuid.Nil, "feed.csv", strings.NewReader("x"))
	require.Error(t, err)
}
