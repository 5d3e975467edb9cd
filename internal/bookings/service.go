package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/internal/distributors"
	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/pkg/config"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/metrics"
	"github.com/reelwire/dcpflow-backend/pkg/qubewire"
)

type cplResolver interface {
	MergedCplIDs(ctx context.Context, userID uuid.UUID, contentID string) ([]string, error)
}

type credentialResolver interface {
	Resolve(ctx context.Context, pairs []distributors.Pair) (map[distributors.Pair]distributors.Resolution, error)
}

type wireClient interface {
	CreateBookings(ctx context.Context, token string, req qubewire.CreateBookingsRequest) (*qubewire.CreateBookingsResponse, error)
	ListDeliveries(ctx context.Context, token, contentID string) ([]qubewire.DeliveryRecord, error)
}

// Service aggregates orders into content groups, submits pending orders to
// the wire API per distributor, and merges delivery statuses back in.
type Service struct {
	orders          orders.Repository
	cpl             cplResolver
	credentials     credentialResolver
	wire            wireClient
	metrics         *metrics.OpMetrics
	logger          *logger.Logger
	pollConcurrency int
}

func NewService(
	ordersRepo orders.Repository,
	cpl cplResolver,
	credentials credentialResolver,
	wire wireClient,
	cfg config.QubeWireConfig,
	opMetrics *metrics.OpMetrics,
	logg *logger.Logger,
) *Service {
	concurrency := cfg.PollConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		orders:          ordersRepo,
		cpl:             cpl,
		credentials:     credentials,
		wire:            wire,
		metrics:         opMetrics,
		logger:          logg,
		pollConcurrency: concurrency,
	}
}

// Summaries folds the caller's full order set into per-content summaries,
// each enriched with the merged CPL list for its content id.
func (s *Service) Summaries(ctx context.Context, userID uuid.UUID) ([]ContentSummary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	all, err := s.orders.ListAll(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders")
	}

	summaries := summarize(all)
	for i := range summaries {
		cplIDs, err := s.cpl.MergedCplIDs(ctx, userID, summaries[i].ContentID)
		if err != nil {
			return nil, err
		}
		if cplIDs == nil {
			cplIDs = []string{}
		}
		summaries[i].CplIDs = cplIDs
	}
	return summaries, nil
}
