package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// RegisterValidations installs custom binding rules on gin's validator engine.
// Called once at startup.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("reportstatus", validReportStatus)
	}
}

func validReportStatus(fl validator.FieldLevel) bool {
	return domain.ValidateReportStatus(domain.ReportStatus(fl.Field().String())) == nil
}
