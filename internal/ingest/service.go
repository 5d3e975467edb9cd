package ingest

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service ingests the uploaded booking feed: parse, validate, persist in one
// transaction so a rejected batch leaves nothing behind.
type Service struct {
	db      txRunner
	repo    orders.Repository
	parser  *Parser
	metrics *metrics.OpMetrics
	logger  *logger.Logger
}

func NewService(db txRunner, repo orders.Repository, parser *Parser, opMetrics *metrics.OpMetrics, logg *logger.Logger) *Service {
	return &Service{db: db, repo: repo, parser: parser, metrics: opMetrics, logger: logg}
}

// Upload parses the CSV and inserts every row as an order owned by userID.
// Any validation failure rejects the whole batch before a single write.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, filename string, file io.Reader) (*Result, error) {
	started := time.Now()
	result, err := s.upload(ctx, userID, filename, file)
	s.metrics.ObserveDuration(metrics.OpIngest, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(metrics.OpIngest)
		return nil, err
	}
	s.metrics.IncSuccess(metrics.OpIngest)
	return result, nil
}

func (s *Service) upload(ctx context.Context, userID uuid.UUID, filename string, file io.Reader) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file must have a .csv extension")
	}

	rows, err := s.parser.Parse(file)
	if err != nil {
		return nil, err
	}

	batch := make([]models.Order, 0, len(rows))
	result := Result{Total: len(rows)}
	for _, row := range rows {
		batch = append(batch, row.ToOrder(userID))
		switch enums.Operation(row.Operation) {
		case enums.OperationInsert:
			result.Inserted++
		case enums.OperationUpdate:
			result.Updated++
		case enums.OperationCancel:
			result.Cancelled++
		}
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateBatch(ctx, batch)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting order batch")
	}

	ctx = s.logger.WithUserID(ctx, userID.String())
	s.logger.Info(s.logger.WithField(ctx, "rows", result.Total), "order feed ingested")
	return &result, nil
}
