package distributors

import (
	"context"
	"encoding/base64"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/pkg/db"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

type orderPairSource interface {
	DistinctStudioCompanies(ctx context.Context, userID uuid.UUID) ([]orders.StudioCompany, error)
}

// Service manages distributor records and resolves wire credentials for
// submission. Decoded tokens exist only in memory for the duration of a call.
type Service struct {
	repo       Repository
	orderPairs orderPairSource
	logger     *logger.Logger
}

func NewService(repo Repository, orderPairs orderPairSource, logg *logger.Logger) *Service {
	return &Service{repo: repo, orderPairs: orderPairs, logger: logg}
}

// List returns configured distributors merged with studio/company pairs seen
// in the caller's order feed that have no record yet.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]View, error) {
	configured, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing distributors")
	}

	views := make([]View, 0, len(configured))
	known := make(map[Pair]struct{}, len(configured))
	for _, d := range configured {
		views = append(views, viewFromModel(d))
		known[Pair{StudioID: d.StudioID, QWCompanyID: d.QWCompanyID}] = struct{}{}
	}

	observed, err := s.orderPairs.DistinctStudioCompanies(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing order studio pairs")
	}
	for _, pair := range observed {
		if pair.StudioID == "" || pair.QWCompanyID == "" {
			continue
		}
		if _, ok := known[Pair{StudioID: pair.StudioID, QWCompanyID: pair.QWCompanyID}]; ok {
			continue
		}
		views = append(views, View{
			StudioID:      pair.StudioID,
			StudioName:    pair.StudioName,
			QWCompanyID:   pair.QWCompanyID,
			QWCompanyName: pair.QWCompanyName,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].StudioName != views[j].StudioName {
			return views[i].StudioName < views[j].StudioName
		}
		return views[i].QWCompanyName < views[j].QWCompanyName
	})
	return views, nil
}

// Create registers a distributor; the PAT, when supplied, is stored encoded.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	input.StudioID = strings.TrimSpace(input.StudioID)
	input.QWCompanyID = strings.TrimSpace(input.QWCompanyID)
	if input.StudioID == "" || input.QWCompanyID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "studio_id and qw_company_id are required")
	}

	distributor := models.Distributor{
		UserID:         userID,
		StudioID:       input.StudioID,
		StudioName:     strings.TrimSpace(input.StudioName),
		QWCompanyID:    input.QWCompanyID,
		QWCompanyName:  strings.TrimSpace(input.QWCompanyName),
		QWPATEncrypted: encodePAT(input.QWPAT),
	}
	if err := s.repo.Create(ctx, &distributor); err != nil {
		if db.IsUniqueViolation(err, "idx_distributor_studio_company") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "distributor already exists for this studio and company")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating distributor")
	}

	s.logger.Info(s.logger.WithDistributorID(ctx, distributor.ID.String()), "distributor created")
	view := viewFromModel(distributor)
	return &view, nil
}

// UpdateCredential replaces the stored token for one distributor. An empty
// PAT clears it.
func (s *Service) UpdateCredential(ctx context.Context, actorID, distributorID uuid.UUID, pat string) error {
	if distributorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "distributor id is required")
	}
	err := s.repo.UpdateCredential(ctx, distributorID, encodePAT(pat), actorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "distributor not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating distributor credential")
	}
	s.logger.Info(s.logger.WithDistributorID(ctx, distributorID.String()), "distributor credential updated")
	return nil
}

// Resolve looks up every pair in one query and reports, per pair, either the
// distributor with its decoded token or the reason that partition cannot
// submit. A missing or undecodable credential fails only its own pair.
func (s *Service) Resolve(ctx context.Context, pairs []Pair) (map[Pair]Resolution, error) {
	found, err := s.repo.FindByPairs(ctx, pairs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving distributors")
	}

	byPair := make(map[Pair]models.Distributor, len(found))
	for _, d := range found {
		byPair[Pair{StudioID: d.StudioID, QWCompanyID: d.QWCompanyID}] = d
	}

	resolutions := make(map[Pair]Resolution, len(pairs))
	for _, pair := range pairs {
		d, ok := byPair[pair]
		if !ok {
			resolutions[pair] = Resolution{Err: pkgerrors.New(pkgerrors.CodeNotFound, "no distributor configured")}
			continue
		}
		distributor := d
		if !distributor.HasCredential() {
			resolutions[pair] = Resolution{Distributor: &distributor, Err: pkgerrors.New(pkgerrors.CodeValidation, "distributor has no credential")}
			continue
		}
		token, err := base64.StdEncoding.DecodeString(*distributor.QWPATEncrypted)
		if err != nil {
			resolutions[pair] = Resolution{Distributor: &distributor, Err: pkgerrors.New(pkgerrors.CodeInternal, "stored credential is not decodable")}
			continue
		}
		resolutions[pair] = Resolution{Distributor: &distributor, Token: string(token)}
	}
	return resolutions, nil
}

func encodePAT(pat string) *string {
	pat = strings.TrimSpace(pat)
	if pat == "" {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(pat))
	return &encoded
}
