package handlers

import (
	"database/sql"

	"github.com/openledgerhq/payrecon-backend/repository"
	"github.com/openledgerhq/payrecon-backend/services"
)

// HandlerServices contains all service dependencies
type HandlerServices struct {
	Ledger    *services.LedgerService
	Deposits  *services.DepositService
	Linkage   *services.LinkageService
	Ingestion *services.IngestionService
	Reports   *services.ReportService
	Excel     *services.ExcelService
}

// NewHandlerServices wires the repositories and services against a database
func NewHandlerServices(db *sql.DB) *HandlerServices {
	paymentRepo := repository.NewPaymentRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	linkageRepo := repository.NewLinkageRepository(db)

	ledger := services.NewLedgerService(paymentRepo)
	deposits := services.NewDepositService(depositRepo)
	linkage := services.NewLinkageService(paymentRepo, depositRepo, linkageRepo)
	reports := services.NewReportService(ledger, deposits, linkage)

	return &HandlerServices{
		Ledger:    ledger,
		Deposits:  deposits,
		Linkage:   linkage,
		Ingestion: services.NewIngestionService(ledger, deposits, linkage),
		Reports:   reports,
		Excel:     services.NewExcelService(reports),
	}
}
