package dto

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	TenantID    string `json:"tenantID" yaml:"-" validate:"required"`
	Code        string `json:"code" yaml:"code" validate:"required,max=20"`
	Name        string `json:"name" yaml:"name" validate:"required,max=255"`
	AccountType string `json:"accountType" yaml:"type" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentCode  string `json:"parentCode,omitempty" yaml:"parent,omitempty" validate:"max=20"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" validate:"max=1000"`
	CreatedBy   string `json:"createdBy" yaml:"-" validate:"required"`
}
