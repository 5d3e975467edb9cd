package users

import (
	"time"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// UserWithRole is one profile row joined with its role assignment.
type UserWithRole struct {
	User models.User
	Role enums.AppRole
}

// InviteInput creates a staff account with a generated temporary password.
type InviteInput struct {
	Email string `json:"email" validate:"required,email,max=500"`
	Name  string `json:"name" validate:"omitempty,max=500"`
	Role  string `json:"role" validate:"omitempty,oneof=admin client_service viewer"`
}

// View is the API shape of a staff account.
type View struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	Name        *string       `json:"name,omitempty"`
	Status      string        `json:"status"`
	Role        enums.AppRole `json:"role"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// InviteResult returns the new account plus its one-time temporary password.
// The password is shown exactly once and never stored in the clear.
type InviteResult struct {
	User         View   `json:"user"`
	TempPassword string `json:"temp_password"`
}

func viewFrom(u models.User, role enums.AppRole) View {
	return View{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		Status:      u.Status,
		Role:        role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
