package router

import (
	"github.com/FatimaaAlzahraa/RouteX/internal/handlers"
	"github.com/FatimaaAlzahraa/RouteX/internal/middleware"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/gin-contrib/cors"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Identity     service.IdentityService
	Shipments    service.ShipmentService
	Statuses     service.StatusService
	Availability service.AvailabilityService
	Catalog      service.CatalogService
}

func Router(jwtCfg middleware.JWTConfig, svc Services, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	shipmentHandler := handlers.NewShipmentHandler(svc.Shipments, log)
	statusHandler := handlers.NewStatusUpdateHandler(svc.Statuses, log)
	driverStatusHandler := handlers.NewDriverStatusHandler(svc.Availability, log)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, log)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthRequired(jwtCfg, svc.Identity, log))

	shipments := api.Group("/shipments")
	{
		shipments.POST("", shipmentHandler.Create)
		shipments.GET("", shipmentHandler.List)
		shipments.GET("/my", shipmentHandler.ListMine)
		shipments.GET("/:id", shipmentHandler.Get)
		shipments.PATCH("/:id", shipmentHandler.Update)
		shipments.DELETE("/:id", shipmentHandler.Delete)
		shipments.GET("/:id/status-updates", statusHandler.ListByShipment)
	}

	api.POST("/status-updates", statusHandler.Create)
	api.GET("/driver-statuses", driverStatusHandler.List)

	warehouses := api.Group("/warehouses")
	{
		warehouses.POST("", catalogHandler.CreateWarehouse)
		warehouses.GET("", catalogHandler.ListWarehouses)
		warehouses.GET("/:id", catalogHandler.GetWarehouse)
		warehouses.PATCH("/:id", catalogHandler.UpdateWarehouse)
		warehouses.DELETE("/:id", catalogHandler.DeleteWarehouse)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", catalogHandler.CreateCustomer)
		customers.GET("", catalogHandler.ListCustomers)
		customers.GET("/:id", catalogHandler.GetCustomer)
		customers.PATCH("/:id", catalogHandler.UpdateCustomer)
		customers.DELETE("/:id", catalogHandler.DeleteCustomer)
	}

	products := api.Group("/products")
	{
		products.POST("", catalogHandler.CreateProduct)
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
		products.PATCH("/:id", catalogHandler.UpdateProduct)
		products.POST("/:id/restock", catalogHandler.RestockProduct)
	}

	return r
}
