package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/core/services"
	"github.com/kvistberg/work_order_app/internal/dto"
)

type ReportServiceTestSuite struct {
	suite.Suite
	mockReportRepo   *MockReportRepository
	mockPartnerRepo  *MockPartnerRepository
	mockCustomerRepo *MockCustomerRepository
	mockUnitRepo     *MockUnitRepository
	mockDeliverer    *MockDeliverer
	mockBlobs        *MockBlobStore
	service          portssvc.ReportSvcFacade
	ctx              context.Context
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockUnitRepo = new(MockUnitRepository)
	suite.mockDeliverer = new(MockDeliverer)
	suite.mockBlobs = new(MockBlobStore)
	ownership := services.NewOwnershipResolverService(suite.mockPartnerRepo, suite.mockCustomerRepo)
	suite.service = services.NewReportService(
		suite.mockReportRepo,
		suite.mockPartnerRepo,
		suite.mockCustomerRepo,
		suite.mockUnitRepo,
		ownership,
		suite.mockDeliverer,
		suite.mockBlobs,
		0,
	)
	suite.ctx = context.Background()
}

func (suite *ReportServiceTestSuite) ownedPartner() *domain.Partner {
	return &domain.Partner{PartnerID: "partner-1", AdminID: "admin-1", Email: "partner@example.com"}
}

func (suite *ReportServiceTestSuite) TestCreateReport_NormalizesReportNumber() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()
	suite.mockReportRepo.On("SaveReport", suite.ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.ReportNumber == "WO1234" && r.IsNew && r.Status == domain.ReportStatusActive
	})).Return(nil).Once()

	result, err := suite.service.CreateReport(suite.ctx, "admin-1", dto.CreateReportRequest{
		ReportNumber: "1234",
		VNNumber:     "VN-9",
		PartnerID:    "partner-1",
	}, nil)

	suite.Require().NoError(err)
	suite.Equal("WO1234", result.Report.ReportNumber)
	suite.True(result.Report.IsNew)
	suite.False(result.NotifyFailed)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestCreateReport_PrefixedNumberUnchanged() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()
	suite.mockReportRepo.On("SaveReport", suite.ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.ReportNumber == "WO5678"
	})).Return(nil).Once()

	result, err := suite.service.CreateReport(suite.ctx, "admin-1", dto.CreateReportRequest{
		ReportNumber: "WO5678",
		VNNumber:     "VN-9",
		PartnerID:    "partner-1",
	}, nil)

	suite.Require().NoError(err)
	suite.Equal("WO5678", result.Report.ReportNumber)
}

func (suite *ReportServiceTestSuite) TestCreateReport_UnknownPartnerIsValidationError() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-gone").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateReport(suite.ctx, "admin-1", dto.CreateReportRequest{
		ReportNumber: "1",
		VNNumber:     "VN-1",
		PartnerID:    "partner-gone",
	}, nil)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport")
}

func (suite *ReportServiceTestSuite) TestCreateReport_ForeignAdminDenied() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()

	_, err := suite.service.CreateReport(suite.ctx, "admin-2", dto.CreateReportRequest{
		ReportNumber: "1",
		VNNumber:     "VN-1",
		PartnerID:    "partner-1",
	}, nil)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport")
}

func (suite *ReportServiceTestSuite) TestCreateReport_CustomerOfAnotherPartnerConflicts() {
	customerID := "cust-1"
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-1").
		Return(&domain.Customer{CustomerID: "cust-1", PartnerID: "partner-2"}, nil).Once()

	_, err := suite.service.CreateReport(suite.ctx, "admin-1", dto.CreateReportRequest{
		ReportNumber: "1",
		VNNumber:     "VN-1",
		PartnerID:    "partner-1",
		CustomerID:   &customerID,
	}, nil)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport")
}

func (suite *ReportServiceTestSuite) TestCreateReport_InvalidStatusRejected() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()

	_, err := suite.service.CreateReport(suite.ctx, "admin-1", dto.CreateReportRequest{
		ReportNumber: "1",
		VNNumber:     "VN-1",
		Status:       "Archived",
		PartnerID:    "partner-1",
	}, nil)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestCreateReport_NotifyFailureIsPartialSuccess() {
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()
	suite.mockReportRepo.On("SaveReport", suite.ctx, mock.AnythingOfType("domain.Report")).
		Return(nil).Once()
	suite.mockDeliverer.On("Send", suite.ctx, "partner@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything).
		Return(apperrors.ErrDelivery).Once()

	result, err := suite.service.CreateReport(suite.ctx, "admin-1", dto.CreateReportRequest{
		ReportNumber: "1234",
		VNNumber:     "VN-9",
		PartnerID:    "partner-1",
		SendEmail:    true,
	}, nil)

	suite.Require().NoError(err)
	suite.True(result.NotifyFailed)
	suite.mockDeliverer.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSendReportToCustomer_UnitCustomerWinsAndClearsFlag() {
	unitID := "unit-1"
	reportCustomerID := "cust-direct"
	unitCustomerID := "cust-unit"
	report := &domain.Report{
		ReportID:     "rep-1",
		ReportNumber: "WO1234",
		PartnerID:    "partner-1",
		CustomerID:   &reportCustomerID,
		UnitID:       &unitID,
		IsNew:        true,
	}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").
		Return(&domain.Unit{UnitID: "unit-1", CustomerID: &unitCustomerID}, nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-unit").
		Return(&domain.Customer{CustomerID: "cust-unit", PartnerID: "partner-1", Email: "unit-customer@example.com"}, nil).Once()
	suite.mockDeliverer.On("Send", suite.ctx, "unit-customer@example.com", "Work order WO1234", mock.AnythingOfType("string"), mock.Anything).
		Return(nil).Once()
	suite.mockReportRepo.On("MarkReportRead", suite.ctx, "rep-1").Return(nil).Once()

	err := suite.service.SendReportToCustomer(suite.ctx, "partner-1", "rep-1")

	suite.Require().NoError(err)
	suite.mockReportRepo.AssertExpectations(suite.T())
	suite.mockDeliverer.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSendReportToCustomer_DeliveryFailureKeepsFlag() {
	customerID := "cust-1"
	report := &domain.Report{
		ReportID:     "rep-1",
		ReportNumber: "WO1234",
		PartnerID:    "partner-1",
		CustomerID:   &customerID,
		IsNew:        true,
	}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", suite.ctx, "cust-1").
		Return(&domain.Customer{CustomerID: "cust-1", PartnerID: "partner-1", Email: "customer@example.com"}, nil).Once()
	suite.mockDeliverer.On("Send", suite.ctx, "customer@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything).
		Return(apperrors.ErrDelivery).Once()

	err := suite.service.SendReportToCustomer(suite.ctx, "partner-1", "rep-1")

	suite.ErrorIs(err, apperrors.ErrDelivery)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "MarkReportRead")
}

func (suite *ReportServiceTestSuite) TestSendReportToCustomer_PartnerUnitHasNoRecipient() {
	unitID := "unit-1"
	partnerID := "partner-1"
	report := &domain.Report{
		ReportID:  "rep-1",
		PartnerID: "partner-1",
		UnitID:    &unitID,
	}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").
		Return(&domain.Unit{UnitID: "unit-1", PartnerID: &partnerID}, nil).Once()

	err := suite.service.SendReportToCustomer(suite.ctx, "partner-1", "rep-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "customer-send path")
	suite.mockDeliverer.AssertNotCalled(suite.T(), "Send")
}

func (suite *ReportServiceTestSuite) TestSendReportToCustomer_PartnerUnitBlocksDirectCustomer() {
	unitID := "unit-1"
	partnerID := "partner-1"
	directCustomerID := "cust-direct"
	report := &domain.Report{
		ReportID:   "rep-1",
		PartnerID:  "partner-1",
		CustomerID: &directCustomerID,
		UnitID:     &unitID,
		IsNew:      true,
	}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockUnitRepo.On("FindUnitByID", suite.ctx, "unit-1").
		Return(&domain.Unit{UnitID: "unit-1", PartnerID: &partnerID}, nil).Once()

	err := suite.service.SendReportToCustomer(suite.ctx, "partner-1", "rep-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "cannot deliver to a partner via the customer-send path")
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "FindCustomerByID")
	suite.mockDeliverer.AssertNotCalled(suite.T(), "Send")
	suite.mockReportRepo.AssertNotCalled(suite.T(), "MarkReportRead")
}

func (suite *ReportServiceTestSuite) TestSendReportToCustomer_ForeignPartnerDenied() {
	report := &domain.Report{ReportID: "rep-1", PartnerID: "partner-1"}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()

	err := suite.service.SendReportToCustomer(suite.ctx, "partner-2", "rep-1")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockDeliverer.AssertNotCalled(suite.T(), "Send")
}

func (suite *ReportServiceTestSuite) TestMarkReportRead() {
	report := &domain.Report{ReportID: "rep-1", PartnerID: "partner-1", IsNew: true}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockReportRepo.On("MarkReportRead", suite.ctx, "rep-1").Return(nil).Once()

	err := suite.service.MarkReportRead(suite.ctx, "partner-1", "rep-1")

	suite.Require().NoError(err)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestUpdateReport_EmptyUnitIDDetaches() {
	unitID := "unit-1"
	empty := ""
	report := &domain.Report{
		ReportID:     "rep-1",
		ReportNumber: "WO1234",
		VNNumber:     "VN-1",
		Status:       domain.ReportStatusActive,
		PartnerID:    "partner-1",
		UnitID:       &unitID,
	}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()
	suite.mockReportRepo.On("UpdateReport", suite.ctx, mock.MatchedBy(func(r domain.Report) bool {
		return r.UnitID == nil
	})).Return(nil).Once()

	updated, err := suite.service.UpdateReport(suite.ctx, "admin-1", "rep-1", dto.UpdateReportRequest{
		UnitID: &empty,
	})

	suite.Require().NoError(err)
	suite.Nil(updated.UnitID)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestUpdateReport_InvalidStatusRejected() {
	status := "Done"
	report := &domain.Report{ReportID: "rep-1", PartnerID: "partner-1", Status: domain.ReportStatusActive}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()

	_, err := suite.service.UpdateReport(suite.ctx, "admin-1", "rep-1", dto.UpdateReportRequest{
		Status: &status,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "UpdateReport")
}

func (suite *ReportServiceTestSuite) TestDeleteReport_ReleasesBlobs() {
	report := &domain.Report{
		ReportID:  "rep-1",
		PartnerID: "partner-1",
		Files: []domain.ReportFile{
			{FileID: "file-1", StoragePath: "uploads/WO1234_1.pdf"},
		},
	}
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-1").Return(report, nil).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, "partner-1").
		Return(suite.ownedPartner(), nil).Once()
	suite.mockReportRepo.On("DeleteReport", suite.ctx, "rep-1").Return(nil).Once()
	suite.mockBlobs.On("Delete", suite.ctx, "uploads/WO1234_1.pdf").Return(nil).Once()

	err := suite.service.DeleteReport(suite.ctx, "admin-1", "rep-1")

	suite.Require().NoError(err)
	suite.mockBlobs.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetReportByID_NotFoundPassesThrough() {
	suite.mockReportRepo.On("FindReportByID", suite.ctx, "rep-gone").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetReportByID(suite.ctx, domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}, "rep-gone")

	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
