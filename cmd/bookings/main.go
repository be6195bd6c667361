package main

import (
	"travelwindow/internal/bookings/events"
	"travelwindow/internal/bookings/handler"
	"travelwindow/internal/bookings/repository"
	"travelwindow/internal/bookings/service"
	"travelwindow/internal/bookings/validator"
	supplierrepository "travelwindow/internal/suppliers/repository"
	supplierservice "travelwindow/internal/suppliers/service"
	"travelwindow/pkg/app"
	"travelwindow/pkg/config"
	"travelwindow/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting Bookings service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	bookingService, producer := initServices(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close event producer", "error", err)
			}
		}()
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, *kafka.Producer) {
	var producer *kafka.Producer
	var publisher *events.Publisher
	if cfg.EventsEnabled {
		var err error
		producer, err = kafka.NewProducer(kafka.LoadConfig(), cfg.EventsTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize event producer", "error", err)
		}
		publisher = events.NewPublisher(producer, cfg.Log)
		cfg.Log.Info("Booking event publishing enabled", "topic", cfg.EventsTopic)
	} else {
		cfg.Log.Info("Booking event publishing disabled")
	}

	supplierRepo := supplierrepository.NewMongoSupplierRepository(cfg)
	supplierService := supplierservice.NewSupplierService(supplierRepo, cfg)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		supplierService,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, producer
}
