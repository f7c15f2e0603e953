package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"cloudtalk/internal/db"
	"cloudtalk/internal/handlers"
	"cloudtalk/internal/observability"
	"cloudtalk/internal/repositories"
	"cloudtalk/internal/tracing"
)

func main() {
	ctx := context.Background()

	shutdown, err := tracing.Setup(ctx, "cloudtalk-blobd", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdown(ctx)

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	repo := repositories.NewDocumentRepo(database)
	dataHandler := handlers.NewDataHandler(repo)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("cloudtalk-blobd"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/api/data", dataHandler.GetDocument)
	router.PUT("/api/data", dataHandler.PutDocument)
	router.GET("/healthz", dataHandler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
