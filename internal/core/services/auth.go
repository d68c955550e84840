package services

import (
	"context"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

// requireAdmin is the gate for privileged operations: the token must resolve
// to a user and that user must be an administrator.
func requireAdmin(ctx context.Context, identity ports.IdentityVerifier, token string) (domain.User, error) {
	actor, err := identity.WhoAmI(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if !actor.IsAdmin {
		return domain.User{}, domain.ErrNotAdministrator
	}
	return actor, nil
}
