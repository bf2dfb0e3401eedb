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
	"github.com/kvistberg/work_order_app/internal/utils"
)

type PartnerServiceTestSuite struct {
	suite.Suite
	mockPartnerRepo  *MockPartnerRepository
	mockCustomerRepo *MockCustomerRepository
	mockUnitRepo     *MockUnitRepository
	mockReportRepo   *MockReportRepository
	mockBlobs        *MockBlobStore
	service          portssvc.PartnerSvcFacade
	ctx              context.Context
}

func (suite *PartnerServiceTestSuite) SetupTest() {
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockBlobs = new(MockBlobStore)
	ownership := services.NewOwnershipResolverService(suite.mockPartnerRepo, suite.mockCustomerRepo)
	suite.service = services.NewPartnerService(
		suite.mockPartnerRepo,
		suite.mockCustomerRepo,
		suite.mockUnitRepo,
		suite.mockReportRepo,
		ownership,
		suite.mockBlobs,
	)
	suite.ctx = context.Background()
}

func (suite *PartnerServiceTestSuite) TestCreatePartner_HashesPasswordAndLowercasesEmail() {
	suite.mockPartnerRepo.On("SavePartner", suite.ctx, mock.MatchedBy(func(p domain.Partner) bool {
		return p.Email == "new@example.com" &&
			p.AdminID == "admin-1" &&
			p.PasswordHash != "secret-pass" &&
			utils.CheckPasswordHash("secret-pass", p.PasswordHash)
	})).Return(nil).Once()

	partner, err := suite.service.CreatePartner(suite.ctx, "admin-1", dto.CreatePartnerRequest{
		Name:     "New Partner",
		Email:    " New@Example.COM ",
		Password: "secret-pass",
	})

	suite.Require().NoError(err)
	suite.Equal("new@example.com", partner.Email)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestCreatePartner_DuplicateEmail() {
	suite.mockPartnerRepo.On("SavePartner", suite.ctx, mock.AnythingOfType("domain.Partner")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreatePartner(suite.ctx, "admin-1", dto.CreatePartnerRequest{
		Name:     "New Partner",
		Email:    "taken@example.com",
		Password: "secret-pass",
	})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *PartnerServiceTestSuite) TestDeletePartner_CascadesAfterOwnershipCheck() {
	partner := &domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").Return(partner, nil).Once()
	suite.mockReportRepo.On("ListReportsByPartnerID", suite.ctx, "partner-1").
		Return([]domain.Report{}, nil).Once()
	suite.mockPartnerRepo.On("DeletePartnerCascade", suite.ctx, "partner-1").Return(nil).Once()

	err := suite.service.DeletePartner(suite.ctx, domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}, "partner-1")

	suite.Require().NoError(err)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
	suite.mockBlobs.AssertNotCalled(suite.T(), "Delete")
}

func (suite *PartnerServiceTestSuite) TestDeletePartner_ReleasesReportBlobs() {
	partner := &domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").Return(partner, nil).Once()
	suite.mockReportRepo.On("ListReportsByPartnerID", suite.ctx, "partner-1").
		Return([]domain.Report{
			{ReportID: "rep-1", PartnerID: "partner-1", Files: []domain.ReportFile{{FileID: "file-1", StoragePath: "blobs/wo1111.pdf"}}},
			{ReportID: "rep-2", PartnerID: "partner-1", Files: []domain.ReportFile{{FileID: "file-2", StoragePath: "blobs/wo2222.pdf"}}},
		}, nil).Once()
	suite.mockPartnerRepo.On("DeletePartnerCascade", suite.ctx, "partner-1").Return(nil).Once()
	suite.mockBlobs.On("Delete", suite.ctx, "blobs/wo1111.pdf").Return(nil).Once()
	// A blob already gone on disk is not an error worth surfacing.
	suite.mockBlobs.On("Delete", suite.ctx, "blobs/wo2222.pdf").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeletePartner(suite.ctx, domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}, "partner-1")

	suite.Require().NoError(err)
	suite.mockBlobs.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestDeletePartner_ForeignAdminDenied() {
	partner := &domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").Return(partner, nil).Once()

	err := suite.service.DeletePartner(suite.ctx, domain.Principal{ID: "admin-2", Role: domain.RoleAdmin}, "partner-1")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "DeletePartnerCascade")
}

func (suite *PartnerServiceTestSuite) TestUpdatePartnerPassword_StoresNewHash() {
	partner := &domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").Return(partner, nil).Once()
	suite.mockPartnerRepo.On("UpdatePartnerPassword", suite.ctx, "partner-1", mock.MatchedBy(func(hash string) bool {
		return utils.CheckPasswordHash("rotated-pass", hash)
	})).Return(nil).Once()

	err := suite.service.UpdatePartnerPassword(suite.ctx, domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}, "partner-1", "rotated-pass")

	suite.Require().NoError(err)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestGetAdminNestedTree_AssemblesAllLevels() {
	unitCustomerID := "cust-1"
	customerUnitID := "unit-c"
	partnerUnitID := "unit-p"
	partnerID := "partner-1"
	directCustomerID := "cust-1"

	suite.mockPartnerRepo.On("ListPartnersByAdminID", suite.ctx, "admin-1").
		Return([]domain.Partner{{PartnerID: "partner-1", Name: "Partner One", AdminID: "admin-1"}}, nil).Once()
	suite.mockCustomerRepo.On("ListCustomersByPartnerIDs", suite.ctx, []string{"partner-1"}).
		Return([]domain.Customer{{CustomerID: "cust-1", Name: "Customer One", PartnerID: "partner-1"}}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCustomerIDs", suite.ctx, []string{"cust-1"}).
		Return([]domain.Unit{{UnitID: "unit-c", UnitName: "Boiler", CustomerID: &unitCustomerID}}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByPartnerIDs", suite.ctx, []string{"partner-1"}).
		Return([]domain.Unit{{UnitID: "unit-p", UnitName: "Warehouse", PartnerID: &partnerID}}, nil).Once()
	suite.mockReportRepo.On("ListReportsByUnitIDs", suite.ctx, []string{"unit-c", "unit-p"}).
		Return([]domain.Report{
			{ReportID: "rep-u1", ReportNumber: "WO1", PartnerID: "partner-1", UnitID: &customerUnitID},
			{ReportID: "rep-u2", ReportNumber: "WO2", PartnerID: "partner-1", UnitID: &partnerUnitID},
		}, nil).Once()
	suite.mockReportRepo.On("ListDirectCustomerReports", suite.ctx, []string{"cust-1"}).
		Return([]domain.Report{
			{ReportID: "rep-c1", ReportNumber: "WO3", PartnerID: "partner-1", CustomerID: &directCustomerID},
		}, nil).Once()
	suite.mockReportRepo.On("ListDirectPartnerReports", suite.ctx, []string{"partner-1"}).
		Return([]domain.Report{
			{ReportID: "rep-p1", ReportNumber: "WO4", PartnerID: "partner-1"},
		}, nil).Once()

	trees, err := suite.service.GetAdminNestedTree(suite.ctx, "admin-1")

	suite.Require().NoError(err)
	suite.Require().Len(trees, 1)
	tree := trees[0]
	suite.Equal("partner-1", tree.PartnerID)

	suite.Require().Len(tree.Customers, 1)
	suite.Equal("cust-1", tree.Customers[0].CustomerID)
	suite.Require().Len(tree.Customers[0].Units, 1)
	suite.Equal("unit-c", tree.Customers[0].Units[0].UnitID)
	suite.Require().Len(tree.Customers[0].Units[0].Reports, 1)
	suite.Equal("rep-u1", tree.Customers[0].Units[0].Reports[0].ReportID)
	suite.Require().Len(tree.Customers[0].Reports, 1)
	suite.Equal("rep-c1", tree.Customers[0].Reports[0].ReportID)

	suite.Require().Len(tree.Units, 1)
	suite.Equal("unit-p", tree.Units[0].UnitID)
	suite.Require().Len(tree.Units[0].Reports, 1)
	suite.Equal("rep-u2", tree.Units[0].Reports[0].ReportID)

	suite.Require().Len(tree.Reports, 1)
	suite.Equal("rep-p1", tree.Reports[0].ReportID)

	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestGetPartnerNestedTree_EmptySubtree() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", Name: "Partner One", AdminID: "admin-1"}, nil).Once()
	suite.mockCustomerRepo.On("ListCustomersByPartnerIDs", suite.ctx, []string{"partner-1"}).
		Return([]domain.Customer{}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByCustomerIDs", suite.ctx, []string{}).
		Return([]domain.Unit{}, nil).Once()
	suite.mockUnitRepo.On("ListUnitsByPartnerIDs", suite.ctx, []string{"partner-1"}).
		Return([]domain.Unit{}, nil).Once()
	suite.mockReportRepo.On("ListReportsByUnitIDs", suite.ctx, []string{}).
		Return([]domain.Report{}, nil).Once()
	suite.mockReportRepo.On("ListDirectCustomerReports", suite.ctx, []string{}).
		Return([]domain.Report{}, nil).Once()
	suite.mockReportRepo.On("ListDirectPartnerReports", suite.ctx, []string{"partner-1"}).
		Return([]domain.Report{}, nil).Once()

	trees, err := suite.service.GetPartnerNestedTree(suite.ctx, "partner-1")

	suite.Require().NoError(err)
	suite.Require().Len(trees, 1)
	// Empty levels come back as empty slices, never nil, so the dashboard
	// payload always carries arrays.
	suite.NotNil(trees[0].Customers)
	suite.NotNil(trees[0].Units)
	suite.NotNil(trees[0].Reports)
	suite.Empty(trees[0].Customers)
}

func TestPartnerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartnerServiceTestSuite))
}
