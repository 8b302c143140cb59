package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/paceline-hq/paceline/pkg/composables"
)

var authorizeReadFn = defaultAuthorizeRead
var authorizeStaffFn = defaultAuthorizeStaff

// authorizeRead allows staff to read any organization's assignments and
// members to read their own organization only.
func authorizeRead(ctx context.Context, organizationID uuid.UUID) error {
	return authorizeReadFn(ctx, organizationID)
}

// authorizeStaff restricts an operation to the assigning authority
// (administrators and consultants): date proposals and program-wide reads.
func authorizeStaff(ctx context.Context) error {
	return authorizeStaffFn(ctx)
}

func defaultAuthorizeRead(ctx context.Context, organizationID uuid.UUID) error {
	identity, err := composables.UseIdentity(ctx)
	if err != nil {
		return newServiceError(http.StatusForbidden, "PROGRAM_ACCESS_DENIED", "no caller identity", err)
	}
	if identity.IsStaff() {
		return nil
	}
	if identity.OrganizationID == organizationID {
		return nil
	}
	return newServiceError(http.StatusForbidden, "PROGRAM_ACCESS_DENIED", "organization does not match caller", nil)
}

func defaultAuthorizeStaff(ctx context.Context) error {
	identity, err := composables.UseIdentity(ctx)
	if err != nil {
		return newServiceError(http.StatusForbidden, "PROGRAM_ACCESS_DENIED", "no caller identity", err)
	}
	if !identity.IsStaff() {
		return newServiceError(http.StatusForbidden, "PROGRAM_ACCESS_DENIED", "only administrators and consultants may assign dates", nil)
	}
	return nil
}
