package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/config"
	"github.com/mattwalter2/NourDemoDashboardBackend/internal/infrastructure"
	"github.com/mattwalter2/NourDemoDashboardBackend/internal/interfaces/http"
	"github.com/mattwalter2/NourDemoDashboardBackend/internal/repository"
	"github.com/mattwalter2/NourDemoDashboardBackend/internal/usecases"
)

func main() {
	cfg := config.Load()

	google, err := infrastructure.NewGoogleWorkspace(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to init Google services: %v", err)
	}

	vapi := infrastructure.NewVapiClient(cfg)
	whatsapp := infrastructure.NewWhatsAppClient(cfg)
	instagram := infrastructure.NewInstagramClient(cfg)
	ads := infrastructure.NewMetaAdsClient(cfg)

	notifier := infrastructure.NewAutomationNotifier()
	booking := usecases.NewBookingService(google, notifier)

	store := repository.NewMessageStore()
	store.Seed()

	r := gin.Default()
	r.Use(cors.Default()) // wide open for the React dashboard

	h := http.NewHandler(cfg, store, vapi, google, whatsapp, instagram, ads, booking)
	http.SetupRoutes(r, h)

	log.Printf("Starting API server on http://localhost:%s", cfg.Port)
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
