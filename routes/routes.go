package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/payrecon-backend/handlers"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, hs *handlers.HandlerServices) {
	paymentHandler := handlers.NewPaymentHandler(hs.Ledger, hs.Reports)
	depositHandler := handlers.NewDepositHandler(hs.Deposits, hs.Reports)
	linkageHandler := handlers.NewLinkageHandler(hs.Linkage)
	ingestionHandler := handlers.NewIngestionHandler(hs.Ingestion)
	excelHandler := handlers.NewExcelHandler(hs.Excel)

	v1 := router.Group("/api/v1")
	{
		// Payment endpoints
		v1.POST("/payments/record", paymentHandler.RecordPayment)
		v1.POST("/payments/fees", paymentHandler.RecordFeeDetails)
		v1.GET("/payments", paymentHandler.GetPaymentHistory)
		v1.GET("/payments/unsettled", paymentHandler.ListUnsettledPayments)
		v1.GET("/payments/:id", paymentHandler.GetPayment)

		// Deposit endpoints
		v1.POST("/deposits/manual", depositHandler.CreateManualDeposit)
		v1.GET("/deposits", depositHandler.ListDeposits)
		v1.GET("/deposits/:id", depositHandler.GetDepositDetail)
		v1.PATCH("/deposits/:id", depositHandler.UpdateManualDeposit)
		v1.POST("/deposits/:id/complete", depositHandler.MarkCompleted)
		v1.POST("/deposits/:id/fail", depositHandler.MarkFailed)

		// Linkage endpoints
		v1.POST("/links/create", linkageHandler.LinkPayment)
		v1.POST("/links/remove", linkageHandler.UnlinkPayment)

		// Payout ingestion endpoint (webhook bridge)
		v1.POST("/payouts/ingest", ingestionHandler.IngestPayout)

		// Report export endpoint
		v1.GET("/reports/reconciliation/export", excelHandler.ExportReconciliationReport)
	}
}
