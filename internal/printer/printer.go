package printer

import "github.com/slok/farmer/internal/model"

// Printer knows how to print farm runs information in different formats.
type Printer interface {
	PrintRunReports(reports []model.RunReport) error
	PrintStatus(statuses []model.AccountStatus) error
	PrintHistory(reports []model.RunReport) error
	PrintMessage(msg string) error
}
