package container

import (
	"database/sql"
	"log"

	"pharmhouse/internal/alerting"
	auditLogRepo "pharmhouse/internal/auditlog"
	"pharmhouse/internal/integrations/googlesheets"
	"pharmhouse/internal/inventory/alerts"
	"pharmhouse/internal/inventory/dispatch"
	"pharmhouse/internal/inventory/lots"
	"pharmhouse/internal/inventory/purchases"
	"pharmhouse/internal/repository"
	"pharmhouse/internal/traceability"
	"pharmhouse/pkg/auditlog"
)

type Container struct {
	Repository      *repository.Repository
	AuditLog        *auditlog.Auditlog
	LotHandler      *lots.LotHandler
	DispatchHandler *dispatch.DispatchHandler
	PurchaseHandler *purchases.PurchaseHandler
	AlertHandler    *alerts.AlertHandler
	TraceHandler    *traceability.TraceHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	logRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(logRepo)
	ids := alerting.UUIDGenerator{}

	lotRepo := lots.NewRepository(repo)
	purchaseRepo := purchases.NewRepository(repo)
	alertRepo := alerts.NewRepository(repo)
	thresholdRepo := alerts.NewThresholdRepository(repo)

	intakeService := lots.NewIntakeService(lotRepo, purchaseRepo, alertRepo, ids)
	lotHandler := lots.NewLotHandler(intakeService, lotRepo, auditLog)

	dispatchService := dispatch.NewDispatchService(lotRepo)
	dispatchHandler := dispatch.NewDispatchHandler(dispatchService, auditLog)

	purchaseHandler := purchases.NewPurchaseHandler(purchaseRepo, auditLog, ids)

	alertService := alerts.NewAlertService(lotRepo, thresholdRepo, alertRepo)
	alertHandler := alerts.NewAlertHandler(alertService, alertRepo, thresholdRepo)

	traceService := traceability.NewTraceabilityService(lotRepo, logRepo)
	traceHandler := traceability.NewTraceHandler(traceService, newReportExporter())

	return &Container{
		Repository:      repo,
		AuditLog:        auditLog,
		LotHandler:      lotHandler,
		DispatchHandler: dispatchHandler,
		PurchaseHandler: purchaseHandler,
		AlertHandler:    alertHandler,
		TraceHandler:    traceHandler,
	}
}

// newReportExporter builds the Google Sheets exporter when credentials are
// configured. Without them report export stays disabled and the rest of the
// application runs normally.
func newReportExporter() traceability.ReportExporter {
	exporter, err := googlesheets.NewReportExporter()
	if err != nil {
		log.Printf("Report export disabled: %v", err)
		return nil
	}
	return exporter
}
