package main

import (
	"travelwindow/internal/suppliers/handler"
	"travelwindow/internal/suppliers/repository"
	"travelwindow/internal/suppliers/service"
	"travelwindow/pkg/app"
	"travelwindow/pkg/config"
)

const ServiceName = "suppliers"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting Suppliers service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	supplierService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewSupplierHandler(supplierService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SupplierService {
	supplierRepo := repository.NewMongoSupplierRepository(cfg)
	supplierService := service.NewSupplierService(supplierRepo, cfg)

	cfg.Log.Info("Supplier service initialized", "database", cfg.MongoDatabaseName)
	return supplierService
}
