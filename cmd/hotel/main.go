package main

import (
	"context"

	"hotelier/internal/hotel/bootstrap"
	"hotelier/internal/hotel/handler"
	"hotelier/pkg/app"
	"hotelier/pkg/config"
)

const ServiceName = "hotel"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Hotel service")
	hotel, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize hotel", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHotelHandler(hotel.Service, cfg.Log),
		handler.NewHealthHandler(hotel.Repository, cfg.Log),
	)
	serverApp.OnShutdown(hotel.Close)
	serverApp.Run()
}
