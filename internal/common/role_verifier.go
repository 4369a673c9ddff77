package common

import (
	"context"
	"errors"

	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

var (
	ErrUnauthenticated  = errors.New("request has no caller")
	ErrPermissionDenied = errors.New("caller role does not have permission")
)

// RoleVerifier checks the caller carried by the request context. Roles are resolved once per
// request by the caller of the domain.
type RoleVerifier struct{}

func NewRoleVerifier() *RoleVerifier {
	return &RoleVerifier{}
}

func (verifier *RoleVerifier) Verify(ctx context.Context, requiredRoles ...string) error {
	if xcontext.RequestUserID(ctx) == "" {
		return ErrUnauthenticated
	}

	for _, role := range xcontext.RequestRoles(ctx) {
		if slices.Contains(requiredRoles, role) {
			return nil
		}
	}

	return ErrPermissionDenied
}

// VerifyTrainer passes if the caller is an admin or the user who registered the trainer.
func (verifier *RoleVerifier) VerifyTrainer(ctx context.Context, trainer *entity.Trainer) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return ErrUnauthenticated
	}

	if slices.Contains(xcontext.RequestRoles(ctx), entity.RoleAdmin) {
		return nil
	}

	if trainer.UserID.Valid && trainer.UserID.String == userID {
		return nil
	}

	return ErrPermissionDenied
}
