package distributors

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

type stubDistributorRepo struct {
	records   []models.Distributor
	created   *models.Distributor
	createErr error
}

func (s *stubDistributorRepo) List(ctx context.Context) ([]models.Distributor, error) {
	return s.records, nil
}

func (s *stubDistributorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Distributor, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, nil
}

func (s *stubDistributorRepo) FindByPairs(ctx context.Context, pairs []Pair) ([]models.Distributor, error) {
	wanted := make(map[Pair]struct{}, len(pairs))
	for _, p := range pairs {
		wanted[p] = struct{}{}
	}
	var matched []models.Distributor
	for _, d := range s.records {
		if _, ok := wanted[Pair{StudioID: d.StudioID, QWCompanyID: d.QWCompanyID}]; ok {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func (s *stubDistributorRepo) Create(ctx context.Context, d *models.Distributor) error {
	if s.createErr != nil {
		return s.createErr
	}
	d.ID = uuid.New()
	s.created = d
	s.records = append(s.records, *d)
	return nil
}

func (s *stubDistributorRepo) UpdateCredential(ctx context.Context, id uuid.UUID, encoded *string, updatedBy uuid.UUID) error {
	return nil
}

type stubPairSource struct {
	pairs []orders.StudioCompany
}

func (s *stubPairSource) DistinctStudioCompanies(ctx context.Context, userID uuid.UUID) ([]orders.StudioCompany, error) {
	return s.pairs, nil
}

func encoded(t *testing.T, token string) *string {
	t.Helper()
	v := base64.StdEncoding.EncodeToString([]byte(token))
	return &v
}

func newDistributorService(repo Repository, src orderPairSource) *Service {
	return NewService(repo, src, logger.New(logger.Options{ServiceName: "dcpflow-test"}))
}

func TestList_MergesOrderPairsWithoutRecords(t *testing.T) {
	repo := &stubDistributorRepo{records: []models.Distributor{{
		ID:            uuid.New(),
		StudioID:      "st-1",
		StudioName:    "Alpha",
		QWCompanyID:   "qw-1",
		QWCompanyName: "Wire One",
	}}}
	src := &stubPairSource{pairs: []orders.StudioCompany{
		{StudioID: "st-1", StudioName: "Alpha", QWCompanyID: "qw-1", QWCompanyName: "Wire One"},
		{StudioID: "st-2", StudioName: "Beta", QWCompanyID: "qw-2", QWCompanyName: "Wire Two"},
		{StudioID: "", StudioName: "Broken", QWCompanyID: "qw-3", QWCompanyName: "Wire Three"},
	}}

	views, err := newDistributorService(repo, src).List(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, views, 2)

	require.Equal(t, "Alpha", views[0].StudioName)
	require.True(t, views[0].Configured)

	require.Equal(t, "Beta", views[1].StudioName)
	require.False(t, views[1].Configured)
	require.False(t, views[1].HasCredential)
	require.Empty(t, views[1].ID)
}

func TestCreate_EncodesPAT(t *testing.T) {
	repo := &stubDistributorRepo{}
	svc := newDistributorService(repo, &stubPairSource{})

	view, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		StudioID:      "st-1",
		StudioName:    "Alpha",
		QWCompanyID:   "qw-1",
		QWCompanyName: "Wire One",
		QWPAT:         "secret-token",
	})
	require.NoError(t, err)
	require.True(t, view.HasCredential)

	require.NotNil(t, repo.created.QWPATEncrypted)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("secret-token")), *repo.created.QWPATEncrypted)
}

func TestCreate_EmptyPATStoresNothing(t *testing.T) {
	repo := &stubDistributorRepo{}
	svc := newDistributorService(repo, &stubPairSource{})

	view, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		StudioID:      "st-1",
		StudioName:    "Alpha",
		QWCompanyID:   "qw-1",
		QWCompanyName: "Wire One",
	})
	require.NoError(t, err)
	require.False(t, view.HasCredential)
	require.Nil(t, repo.created.QWPATEncrypted)
}

func TestResolve_PartitionsFailIndependently(t *testing.T) {
	repo := &stubDistributorRepo{records: []models.Distributor{
		{
			ID:             uuid.New(),
			StudioID:       "st-1",
			QWCompanyID:    "qw-1",
			QWPATEncrypted: encoded(t, "token-one"),
		},
		{
			ID:          uuid.New(),
			StudioID:    "st-2",
			QWCompanyID: "qw-2",
			// no credential on file
		},
		{
			ID:             uuid.New(),
			StudioID:       "st-3",
			QWCompanyID:    "qw-3",
			QWPATEncrypted: strptr("%%% not base64 %%%"),
		},
	}}
	svc := newDistributorService(repo, &stubPairSource{})

	resolutions, err := svc.Resolve(context.Background(), []Pair{
		{StudioID: "st-1", QWCompanyID: "qw-1"},
		{StudioID: "st-2", QWCompanyID: "qw-2"},
		{StudioID: "st-3", QWCompanyID: "qw-3"},
		{StudioID: "st-4", QWCompanyID: "qw-4"},
	})
	require.NoError(t, err)
	require.Len(t, resolutions, 4)

	ok := resolutions[Pair{StudioID: "st-1", QWCompanyID: "qw-1"}]
	require.NoError(t, ok.Err)
	require.Equal(t, "token-one", ok.Token)

	noCred := resolutions[Pair{StudioID: "st-2", QWCompanyID: "qw-2"}]
	require.Error(t, noCred.Err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(noCred.Err).Code())

	badCred := resolutions[Pair{StudioID: "st-3", QWCompanyID: "qw-3"}]
	require.Error(t, badCred.Err)

	missing := resolutions[Pair{StudioID: "st-4", QWCompanyID: "qw-4"}]
	require.Error(t, missing.Err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(missing.Err).Code())
	require.Nil(t, missing.Distributor)
}

func strptr(s string) *string { return &s }
