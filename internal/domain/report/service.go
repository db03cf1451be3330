package report

import "context"

// ReportService builds attendance and salary reports from stored records
type ReportService interface {
	// MonthlyReport summarizes every active employee for a month
	MonthlyReport(ctx context.Context, filter ReportFilter) (MonthlyReport, error)

	// EmployeeReport summarizes a single employee for a month
	EmployeeReport(ctx context.Context, employeeID string, filter ReportFilter) (EmployeeReportResponse, error)

	// ExportMonthly renders the monthly report as a workbook
	ExportMonthly(ctx context.Context, filter ReportFilter) (ExportFile, error)

	// StoreMonthlyExport writes the workbook to storage unless it already exists
	StoreMonthlyExport(ctx context.Context, filter ReportFilter) (StoredExport, bool, error)

	ListExports(ctx context.Context) ([]StoredExport, error)

	DownloadExport(ctx context.Context, name string) (ExportFile, error)

	// SendPayslip emails the employee's salary breakdown
	SendPayslip(ctx context.Context, employeeID string, filter ReportFilter) (PayslipResponse, error)
}
