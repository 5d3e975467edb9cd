package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/pkg/config"
	"github.com/reelwire/dcpflow-backend/pkg/db"
	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/security"
)

const tempPasswordLength = 16

// Service manages staff accounts and their role assignments.
type Service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
	logger      *logger.Logger
}

func NewService(repo Repository, passwordCfg config.PasswordConfig, logg *logger.Logger) *Service {
	return &Service{repo: repo, passwordCfg: passwordCfg, logger: logg}
}

// List returns every account with its role.
func (s *Service) List(ctx context.Context) ([]View, error) {
	joined, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	views := make([]View, 0, len(joined))
	for _, entry := range joined {
		views = append(views, viewFrom(entry.User, entry.Role))
	}
	return views, nil
}

// Invite creates an account with a generated temporary password and assigns
// its role (viewer unless specified). The temp password is returned once.
func (s *Service) Invite(ctx context.Context, actorID uuid.UUID, input InviteInput) (*InviteResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	role := enums.AppRoleViewer
	if input.Role != "" {
		parsed, err := enums.ParseAppRole(input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = parsed
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking user email")
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating password")
	}
	passwordHash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         optionalName(input.Name),
		Status:       "active",
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}
	if err := s.repo.SetRole(ctx, user.ID, role, actorID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assigning role")
	}

	s.logger.Info(s.logger.WithUserID(ctx, user.ID.String()), "user invited")
	return &InviteResult{User: viewFrom(user, role), TempPassword: tempPassword}, nil
}

// ChangeRole reassigns a user's role. The redis-cached role expires on its
// own TTL, so the change takes effect within one cache window.
func (s *Service) ChangeRole(ctx context.Context, actorID, userID uuid.UUID, roleName string) error {
	role, err := enums.ParseAppRole(roleName)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if err := s.repo.SetRole(ctx, userID, role, actorID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assigning role")
	}
	s.logger.Info(s.logger.WithActorRole(s.logger.WithUserID(ctx, userID.String()), role.String()), "user role changed")
	return nil
}

// SetActive enables or disables an account.
func (s *Service) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	status := "disabled"
	if active {
		status = "active"
	}
	err := s.repo.UpdateStatus(ctx, userID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user status")
	}
	return nil
}

// Role reads the user's current role assignment.
func (s *Service) Role(ctx context.Context, userID uuid.UUID) (enums.AppRole, error) {
	role, err := s.repo.GetRole(ctx, userID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading role")
	}
	return role, nil
}

func optionalName(name string) *string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return &name
}
