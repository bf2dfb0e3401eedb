package services

import (
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, deliverer portssvc.Deliverer, blobs portssvc.BlobStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ownership resolver comes first since every other service leans on it.
	container.Ownership = NewOwnershipResolverService(repos.PartnerRepo, repos.CustomerRepo)

	container.Auth = NewAuthService(repos.AdminRepo, repos.PartnerRepo)
	container.Token = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg, container.Auth)

	container.Partner = NewPartnerService(
		repos.PartnerRepo,
		repos.CustomerRepo,
		repos.UnitRepo,
		repos.ReportRepo,
		container.Ownership,
		blobs,
	)
	container.Customer = NewCustomerService(
		repos.CustomerRepo,
		repos.PartnerRepo,
		repos.UnitRepo,
		repos.ReportRepo,
		container.Ownership,
		blobs,
	)
	container.Unit = NewUnitService(
		repos.UnitRepo,
		repos.CustomerRepo,
		repos.PartnerRepo,
		repos.ReportRepo,
		container.Ownership,
		blobs,
	)
	container.Report = NewReportService(
		repos.ReportRepo,
		repos.PartnerRepo,
		repos.CustomerRepo,
		repos.UnitRepo,
		container.Ownership,
		deliverer,
		blobs,
		cfg.DeliveryTimeout,
	)

	return container
}
