package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/config"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/database"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/middleware"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/modules/auth"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/modules/catalog"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/modules/quotation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	stores, err := database.ConnectStores(cfg.MainDSN, cfg.ReadDSN)
	if err != nil {
		log.Fatal(err)
	}

	catalogRepo := catalog.NewRepository(stores.Read)
	overrideRepo := catalog.NewOverrideRepository(stores.Main)
	resolver := catalog.NewResolver(catalogRepo, overrideRepo)
	catalogHandler := catalog.NewHandler(resolver, catalogRepo, overrideRepo)

	quotationRepo := quotation.NewRepository(stores.Main)
	quotationService := quotation.NewService(quotationRepo, resolver)
	quotationHandler := quotation.NewHandler(quotationService)

	sessions := auth.NewSessionStore(stores.Main)
	guard := auth.NewMiddleware(sessions, cfg)

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(guard.SessionRequired())
		{
			quotationHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(guard.RequirePermission(auth.PermLabAdmin))
			{
				catalogHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
