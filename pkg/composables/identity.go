package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/paceline-hq/paceline/pkg/constants"
)

// Roles forwarded by the identity collaborator. Credential verification
// happens upstream; this process trusts the forwarded identity as given.
const (
	RoleAdministrator = "administrator"
	RoleConsultant    = "consultant"
	RoleMember        = "member"
)

var ErrNoIdentity = errors.New("no identity found in context")

// Identity is the already-verified caller identity for the current request.
// OrganizationID is uuid.Nil for platform staff (administrator/consultant).
type Identity struct {
	OrganizationID uuid.UUID
	Role           string
}

func (i Identity) IsStaff() bool {
	return i.Role == RoleAdministrator || i.Role == RoleConsultant
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, constants.IdentityKey, identity)
}

func UseIdentity(ctx context.Context) (Identity, error) {
	v := ctx.Value(constants.IdentityKey)
	if v == nil {
		return Identity{}, ErrNoIdentity
	}
	identity, ok := v.(Identity)
	if !ok || identity.Role == "" {
		return Identity{}, ErrNoIdentity
	}
	return identity, nil
}
