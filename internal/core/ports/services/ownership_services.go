package services

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// OwnershipResolverSvc decides whether a principal may act on a target entity.
//
// A nil return is an allow. apperrors.ErrForbidden is the normal deny outcome
// and apperrors.ErrBrokenReference is a deny caused by a dangling parent link;
// both are results, not exceptions. The ownership chain is walked against
// freshly fetched records on every call, never cached, so concurrent
// reassignment is reflected immediately.
type OwnershipResolverSvc interface {
	// AuthorizePartner checks access to a partner entity. Partners may access
	// only themselves; admins the partners they own.
	AuthorizePartner(ctx context.Context, principal domain.Principal, partner *domain.Partner) error

	// AuthorizeCustomer checks access to a customer via its owning partner.
	AuthorizeCustomer(ctx context.Context, principal domain.Principal, customer *domain.Customer) error

	// AuthorizeUnit checks access to a unit, branching on whichever of
	// customerID/partnerID is populated to find the owning partner.
	AuthorizeUnit(ctx context.Context, principal domain.Principal, unit *domain.Unit) error

	// AuthorizeReport checks access to a report. The owning partner is always
	// Report.PartnerID; recipient resolution uses a different, more specific path.
	AuthorizeReport(ctx context.Context, principal domain.Principal, report *domain.Report) error
}
