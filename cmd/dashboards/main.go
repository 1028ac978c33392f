package main

import (
	"permitdesk/internal/bookings/repository"
	"permitdesk/internal/dashboards/handler"
	"permitdesk/internal/dashboards/refresher"
	"permitdesk/internal/dashboards/service"
	"permitdesk/pkg/app"
	"permitdesk/pkg/config"
)

func main() {
	cfg := config.Load("dashboards")
	cfg.SetMongo()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	snapshotRefresher := refresher.New(cfg.DashboardRefreshInterval, bookingRepo.Snapshot, cfg.Log)
	dashboardService := service.NewDashboardService(cfg, snapshotRefresher)

	application := app.NewApplication(cfg)
	application.SetApp(handler.NewDashboardHandler(cfg, dashboardService))
	application.AddWorker("snapshot-refresher", snapshotRefresher.Run)
	application.Run()
}
