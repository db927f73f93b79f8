package dto

import "time"

// CreateFiscalYearRequest defines a fiscal year split into monthly periods.
type CreateFiscalYearRequest struct {
	TenantID  string    `json:"tenantID" validate:"required"`
	Name      string    `json:"name" validate:"required,max=50"`
	StartDate time.Time `json:"startDate" validate:"required"`
	Months    int       `json:"months" validate:"required,min=1,max=24"`
	CreatedBy string    `json:"createdBy" validate:"required"`
}
