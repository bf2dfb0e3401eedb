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

type UnitServiceTestSuite struct {
	suite.Suite
	mockUnitRepo     *MockUnitRepository
	mockCustomerRepo *MockCustomerRepository
	mockPartnerRepo  *MockPartnerRepository
	mockReportRepo   *MockReportRepository
	mockBlobs        *MockBlobStore
	service          portssvc.UnitSvcFacade
	ctx              context.Context
}

func (suite *UnitServiceTestSuite) SetupTest() {
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockBlobs = new(MockBlobStore)
	ownership := services.NewOwnershipResolverService(suite.mockPartnerRepo, suite.mockCustomerRepo)
	suite.service = services.NewUnitService(
		suite.mockUnitRepo,
		suite.mockCustomerRepo,
		suite.mockPartnerRepo,
		suite.mockReportRepo,
		ownership,
		suite.mockBlobs,
	)
	suite.ctx = context.Background()
}

func (suite *UnitServiceTestSuite) TestCreateUnit_BothParentsRejected() {
	customerID := "cust-1"
	partnerID := "partner-1"

	_, err := suite.service.CreateUnit(suite.ctx, "admin-1", dto.CreateUnitRequest{
		UnitName:   "Pump station",
		CustomerID: &customerID,
		PartnerID:  &partnerID,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUnitRepo.AssertNotCalled(suite.T(), "SaveUnit")
}

func (suite *UnitServiceTestSuite) TestCreateUnit_NoParentRejected() {
	_, err := suite.service.CreateUnit(suite.ctx, "admin-1", dto.CreateUnitRequest{
		UnitName: "Pump station",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUnitRepo.AssertNotCalled(suite.T(), "SaveUnit")
}

func (suite *UnitServiceTestSuite) TestCreateUnit_UnderCustomer() {
	customerID := "cust-1"
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-1").
		Return(&domain.Customer{CustomerID: "cust-1", PartnerID: "partner-1"}, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockUnitRepo.On("SaveUnit", suite.ctx, mock.MatchedBy(func(u domain.Unit) bool {
		return u.CustomerID != nil && *u.CustomerID == "cust-1" && u.PartnerID == nil
	})).Return(nil).Once()

	unit, err := suite.service.CreateUnit(suite.ctx, "admin-1", dto.CreateUnitRequest{
		UnitName:   "Pump station",
		CustomerID: &customerID,
	})

	suite.Require().NoError(err)
	suite.NotEmpty(unit.UnitID)
	suite.mockUnitRepo.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestCreateUnit_ForeignParentDenied() {
	partnerID := "partner-1"
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()

	_, err := suite.service.CreateUnit(suite.ctx, "admin-2", dto.CreateUnitRequest{
		UnitName:  "Pump station",
		PartnerID: &partnerID,
	})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUnitRepo.AssertNotCalled(suite.T(), "SaveUnit")
}

func (suite *UnitServiceTestSuite) TestUpdateUnit_ReassignToPartnerClearsCustomer() {
	customerID := "cust-1"
	partnerID := "partner-1"
	unit := &domain.Unit{UnitID: "unit-1", UnitName: "Pump station", CustomerID: &customerID}
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").Return(unit, nil).Once()
	// Current parent chain for the ownership check.
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-1").
		Return(&domain.Customer{CustomerID: "cust-1", PartnerID: "partner-1"}, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Twice()
	suite.mockUnitRepo.On("UpdateUnit", suite.ctx, mock.MatchedBy(func(u domain.Unit) bool {
		return u.PartnerID != nil && *u.PartnerID == "partner-1" && u.CustomerID == nil
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUnit(suite.ctx, "admin-1", "unit-1", dto.UpdateUnitRequest{
		PartnerID: &partnerID,
	})

	suite.Require().NoError(err)
	suite.Nil(updated.CustomerID)
	suite.mockUnitRepo.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestUpdateUnit_BothParentsCustomerMismatchConflicts() {
	partnerID := "partner-1"
	oldPartnerID := "partner-1"
	customerID := "cust-of-partner-2"
	unit := &domain.Unit{UnitID: "unit-1", PartnerID: &oldPartnerID}
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").Return(unit, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-of-partner-2").
		Return(&domain.Customer{CustomerID: "cust-of-partner-2", PartnerID: "partner-2"}, nil).Once()

	_, err := suite.service.UpdateUnit(suite.ctx, "admin-1", "unit-1", dto.UpdateUnitRequest{
		CustomerID: &customerID,
		PartnerID:  &partnerID,
	})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockUnitRepo.AssertNotCalled(suite.T(), "UpdateUnit")
}

func (suite *UnitServiceTestSuite) TestGetUnitByID_ReturnsUnitWithReports() {
	partnerID := "partner-1"
	unit := &domain.Unit{UnitID: "unit-1", PartnerID: &partnerID}
	reports := []domain.Report{{ReportID: "rep-1", PartnerID: "partner-1", UnitID: &unit.UnitID}}
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").Return(unit, nil).Once()
	suite.mockReportRepo.On("ListReportsByUnitIDs", suite.ctx, []string{"unit-1"}).
		Return(reports, nil).Once()

	got, gotReports, err := suite.service.GetUnitByID(suite.ctx, domain.Principal{ID: "partner-1", Role: domain.RolePartner}, "unit-1")

	suite.Require().NoError(err)
	suite.Equal("unit-1", got.UnitID)
	suite.Len(gotReports, 1)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestDeleteUnit_Cascades() {
	partnerID := "partner-1"
	unit := &domain.Unit{UnitID: "unit-1", PartnerID: &partnerID}
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").Return(unit, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockReportRepo.On("ListReportsByUnitIDs", suite.ctx, []string{"unit-1"}).
		Return([]domain.Report{}, nil).Once()
	suite.mockUnitRepo.On("DeleteUnitCascade", suite.ctx, "unit-1").Return(nil).Once()

	err := suite.service.DeleteUnit(suite.ctx, "admin-1", "unit-1")

	suite.Require().NoError(err)
	suite.mockUnitRepo.AssertExpectations(suite.T())
	suite.mockBlobs.AssertNotCalled(suite.T(), "Delete")
}

func (suite *UnitServiceTestSuite) TestDeleteUnit_ReleasesReportBlobs() {
	partnerID := "partner-1"
	unitID := "unit-1"
	unit := &domain.Unit{UnitID: "unit-1", PartnerID: &partnerID}
	reports := []domain.Report{{
		ReportID:  "rep-1",
		PartnerID: "partner-1",
		UnitID:    &unitID,
		Files: []domain.ReportFile{
			{FileID: "file-1", StoragePath: "blobs/wo1234-a.pdf"},
			{FileID: "file-2", StoragePath: "blobs/wo1234-b.pdf"},
		},
	}}
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").Return(unit, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockReportRepo.On("ListReportsByUnitIDs", suite.ctx, []string{"unit-1"}).
		Return(reports, nil).Once()
	suite.mockUnitRepo.On("DeleteUnitCascade", suite.ctx, "unit-1").Return(nil).Once()
	suite.mockBlobs.On("Delete", suite.ctx, "blobs/wo1234-a.pdf").Return(nil).Once()
	suite.mockBlobs.On("Delete", suite.ctx, "blobs/wo1234-b.pdf").Return(nil).Once()

	err := suite.service.DeleteUnit(suite.ctx, "admin-1", "unit-1")

	suite.Require().NoError(err)
	suite.mockBlobs.AssertExpectations(suite.T())
}

func (suite *UnitServiceTestSuite) TestDeleteUnit_CascadeFailureKeepsBlobs() {
	partnerID := "partner-1"
	unit := &domain.Unit{UnitID: "unit-1", PartnerID: &partnerID}
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").Return(unit, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(&domain.Partner{PartnerID: "partner-1", AdminID: "admin-1"}, nil).Once()
	suite.mockReportRepo.On("ListReportsByUnitIDs", suite.ctx, []string{"unit-1"}).
		Return([]domain.Report{{ReportID: "rep-1", Files: []domain.ReportFile{{FileID: "file-1", StoragePath: "blobs/wo1234-a.pdf"}}}}, nil).Once()
	suite.mockUnitRepo.On("DeleteUnitCascade", suite.ctx, "unit-1").
		Return(apperrors.ErrPartialCascade).Once()

	err := suite.service.DeleteUnit(suite.ctx, "admin-1", "unit-1")

	suite.ErrorIs(err, apperrors.ErrPartialCascade)
	suite.mockBlobs.AssertNotCalled(suite.T(), "Delete")
}

func TestUnitServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UnitServiceTestSuite))
}
