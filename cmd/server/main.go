package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"goodsin/internal/config"
	"goodsin/internal/handler"
	xlsxparser "goodsin/internal/parser/xlsx"
	"goodsin/internal/repository/postgres"
	"goodsin/internal/router"
	"goodsin/internal/service"
	s3storage "goodsin/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	masterRepo := postgres.NewMasterItemRepo(db)
	receivedRepo := postgres.NewReceivedItemRepo(db)
	poRepo := postgres.NewPurchaseOrderRepo(db)

	// Initialize storage and parsing
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	docParser := xlsxparser.NewParser()

	// Initialize services
	catalogSvc := service.NewCatalogService(masterRepo, poRepo, receivedRepo)
	ingestSvc := service.NewIngestService(docParser, s3Client, &cfg.S3)
	receivingSvc := service.NewReceivingService(poRepo, receivedRepo, catalogSvc, service.ReceivingConfig{
		TTL:           cfg.Session.TTL,
		SweepInterval: cfg.Session.SweepInterval,
	})

	// Initialize handlers
	catalogH := handler.NewCatalogHandler(catalogSvc, ingestSvc)
	receivingH := handler.NewReceivingHandler(receivingSvc, ingestSvc)
	poH := handler.NewPurchaseOrderHandler(poRepo)
	healthH := handler.NewHealthHandler(db)

	// Drop abandoned sessions in the background
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go receivingSvc.StartSweeper(ctx)

	// Setup router
	r := router.Setup(cfg, catalogH, receivingH, poH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
