package dto

// CommunicationListRequest filters the audit-log listing.
type CommunicationListRequest struct {
	Channel   string `form:"channel" validate:"omitempty,oneof=email"`
	Status    string `form:"status" validate:"omitempty,oneof=sent failed"`
	Recipient string `form:"recipient" validate:"omitempty,email"`
	DateFrom  string `form:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page"`
	PageSize  int    `form:"limit"`
}

// CommunicationExportRequest selects the export rendering.
type CommunicationExportRequest struct {
	Format   string `form:"format" validate:"required,oneof=csv pdf"`
	Status   string `form:"status" validate:"omitempty,oneof=sent failed"`
	DateFrom string `form:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"dateTo" validate:"omitempty,datetime=2006-01-02"`
}
