package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/core/services"
	"github.com/kvistberg/work_order_app/internal/dto"
)

type CustomerServiceTestSuite struct {
	suite.Suite
	mockCustomerRepo *MockCustomerRepository
	mockPartnerRepo  *MockPartnerRepository
	mockUnitRepo     *MockUnitRepository
	mockReportRepo   *MockReportRepository
	mockBlobs        *MockBlobStore
	service          portssvc.CustomerSvcFacade
	ctx              context.Context
}

func (suite *CustomerServiceTestSuite) SetupTest() {
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockBlobs = new(MockBlobStore)
	ownership := services.NewOwnershipResolverService(suite.mockPartnerRepo, suite.mockCustomerRepo)
	suite.service = services.NewCustomerService(
		suite.mockCustomerRepo,
		suite.mockPartnerRepo,
		suite.mockUnitRepo,
		suite.mockReportRepo,
		ownership,
		suite.mockBlobs,
	)
	suite.ctx = context.Background()
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_UnderOwnedPartner() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockCustomerRepo.On("SaveCustomer", suite.ctx, mock.MatchedBy(func(c domain.Customer) bool {
		return c.PartnerID == "partner-1" && c.Email == "shop@example.com"
	})).Return(nil).Once()

	customer, err := suite.service.CreateCustomer(suite.ctx, "admin-1", dto.CreateCustomerRequest{
		Name:      "Shop",
		Email:     " Shop@Example.com ",
		PartnerID: "partner-1",
	})

	suite.Require().NoError(err)
	suite.Equal("partner-1", customer.PartnerID)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_UnknownPartnerIsValidationError() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-gone").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateCustomer(suite.ctx, "admin-1", dto.CreateCustomerRequest{
		Name:      "Shop",
		Email:     "shop@example.com",
		PartnerID: "partner-gone",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "SaveCustomer")
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_ForeignPartnerDenied() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()

	_, err := suite.service.CreateCustomer(suite.ctx, "admin-2", dto.CreateCustomerRequest{
		Name:      "Shop",
		Email:     "shop@example.com",
		PartnerID: "partner-1",
	})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CustomerServiceTestSuite) TestGetCustomerByID_PartnerReadsOwnCustomer() {
	customer := &domain.Customer{CustomerID: "cust-1", PartnerID: "partner-1"}
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-1").Return(customer, nil).Once()

	got, err := suite.service.GetCustomerByID(suite.ctx, domain.Principal{ID: "partner-1", Role: domain.RolePartner}, "cust-1")

	suite.Require().NoError(err)
	suite.Equal("cust-1", got.CustomerID)
}

func (suite *CustomerServiceTestSuite) TestDeleteCustomer_Cascades() {
	customer := &domain.Customer{CustomerID: "cust-1", PartnerID: "partner-1"}
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-1").Return(customer, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCustomerID", suite.ctx, "cust-1").
		Return([]domain.Unit{}, nil).Once()
	suite.mockReportRepo.On("ListDirectCustomerReports", suite.ctx, []string{"cust-1"}).
		Return([]domain.Report{}, nil).Once()
	suite.mockCustomerRepo.On("DeleteCustomerCascade", suite.ctx, "cust-1").Return(nil).Once()

	err := suite.service.DeleteCustomer(suite.ctx, domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}, "cust-1")

	suite.Require().NoError(err)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
	suite.mockBlobs.AssertNotCalled(suite.T(), "Delete")
}

func (suite *CustomerServiceTestSuite) TestDeleteCustomer_ReleasesSubtreeBlobs() {
	customerID := "cust-1"
	unitID := "unit-1"
	customer := &domain.Customer{CustomerID: "cust-1", PartnerID: "partner-1"}
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-1").Return(customer, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCustomerID", suite.ctx, "cust-1").
		Return([]domain.Unit{{UnitID: "unit-1", CustomerID: &customerID}}, nil).Once()
	suite.mockReportRepo.On("ListReportsByUnitIDs", suite.ctx, []string{"unit-1"}).
		Return([]domain.Report{{
			ReportID: "rep-unit", PartnerID: "partner-1", UnitID: &unitID,
			Files: []domain.ReportFile{{FileID: "file-1", StoragePath: "blobs/wo1111.pdf"}},
		}}, nil).Once()
	suite.mockReportRepo.On("ListDirectCustomerReports", suite.ctx, []string{"cust-1"}).
		Return([]domain.Report{{
			ReportID: "rep-direct", PartnerID: "partner-1", CustomerID: &customerID,
			Files: []domain.ReportFile{{FileID: "file-2", StoragePath: "blobs/wo2222.pdf"}},
		}}, nil).Once()
	suite.mockCustomerRepo.On("DeleteCustomerCascade", suite.ctx, "cust-1").Return(nil).Once()
	suite.mockBlobs.On("Delete", suite.ctx, "blobs/wo1111.pdf").Return(nil).Once()
	suite.mockBlobs.On("Delete", suite.ctx, "blobs/wo2222.pdf").Return(nil).Once()

	err := suite.service.DeleteCustomer(suite.ctx, domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}, "cust-1")

	suite.Require().NoError(err)
	suite.mockBlobs.AssertExpectations(suite.T())
}

func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
