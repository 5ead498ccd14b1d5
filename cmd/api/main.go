package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-wholesale-orders/internal/handler"
	"go-wholesale-orders/internal/middleware"
	"go-wholesale-orders/internal/model"
	"go-wholesale-orders/internal/repository"
	"go-wholesale-orders/internal/service"
	"go-wholesale-orders/internal/ws"
	"go-wholesale-orders/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Buyer{}, &model.ShippingMethod{}, &model.ShippingReceptacle{},
		&model.ProductionZone{}, &model.OrderCategory{}, &model.PaymentReceipt{},
		&model.Product{}, &model.Material{}, &model.Packaging{}, &model.ProductVariation{},
		&model.ProductInventory{}, &model.Order{}, &model.ProductionRequest{}, &model.OrderTemplate{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	orderRepo := repository.NewOrderRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	productionRepo := repository.NewProductionRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	refDataRepo := repository.NewRefDataRepo(db)
	userRepo := repository.NewUserRepo(db)

	inventoryService := service.NewInventoryService(inventoryRepo, orderRepo, productionRepo, db)
	orderService := service.NewOrderService(orderRepo, templateRepo, refDataRepo, inventoryService, db, wsHub)
	productionService := service.NewProductionService(productionRepo, orderRepo, inventoryRepo, inventoryService, db, wsHub)
	templateService := service.NewTemplateService(templateRepo, orderRepo, orderService, db)
	authService := service.NewAuthService(userRepo)

	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, productionService)
	productionHandler := handler.NewProductionHandler(productionService)
	templateHandler := handler.NewTemplateHandler(templateService)
	refDataHandler := handler.NewRefDataHandler(refDataRepo)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Wholesale Order Engine v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Order lifecycle
	protected.Get("/orders", middleware.RequirePrivilege("order:view"), orderHandler.GetOrders)
	protected.Get("/orders/:id", middleware.RequirePrivilege("order:view"), orderHandler.GetOrder)
	protected.Post("/orders", middleware.RequirePrivilege("order:create"), orderHandler.CreateOrder)
	protected.Put("/orders/:id", middleware.RequirePrivilege("order:update"), orderHandler.UpdateOrder)
	protected.Delete("/orders/:id", middleware.RequirePrivilege("order:delete"), orderHandler.DeleteOrder)

	// Inventory buckets
	protected.Get("/inventories", middleware.RequirePrivilege("inventory:view"), inventoryHandler.GetBuckets)
	protected.Get("/inventories/:id", middleware.RequirePrivilege("inventory:view"), inventoryHandler.GetBucket)
	protected.Get("/inventories/:id/summary", middleware.RequirePrivilege("inventory:view"), inventoryHandler.GetBucketSummary)
	protected.Put("/inventories/:id", middleware.RequirePrivilege("production:update"), inventoryHandler.UpdateBucket)
	protected.Post("/inventories/:id/convert", middleware.RequirePrivilege("production:create"), productionHandler.ConvertOutstanding)

	// Production requests
	protected.Get("/production-requests", middleware.RequirePrivilege("production:view"), productionHandler.GetRequests)
	protected.Get("/production-requests/backlog", middleware.RequirePrivilege("production:view"), productionHandler.GetZoneBacklog)
	protected.Get("/production-requests/:id", middleware.RequirePrivilege("production:view"), productionHandler.GetRequest)
	protected.Post("/production-requests", middleware.RequirePrivilege("production:create"), productionHandler.CreateRequest)
	protected.Put("/production-requests/:id", middleware.RequirePrivilege("production:update"), productionHandler.UpdateRequest)
	protected.Delete("/production-requests/:id", middleware.RequirePrivilege("production:delete"), productionHandler.DeleteRequest)

	// Order templates
	protected.Get("/templates", middleware.RequirePrivilege("template:view"), templateHandler.GetTemplates)
	protected.Get("/templates/:id", middleware.RequirePrivilege("template:view"), templateHandler.GetTemplate)
	protected.Put("/templates/:id", middleware.RequirePrivilege("template:create"), templateHandler.UpdateTemplate)
	protected.Post("/templates/:id/derive", middleware.RequirePrivilege("order:create"), templateHandler.DeriveOrder)
	protected.Get("/orders/:orderId/associable-template", middleware.RequirePrivilege("template:view"), templateHandler.GetAssociableTemplate)
	protected.Post("/orders/:orderId/copy-to-template", middleware.RequirePrivilege("template:create"), templateHandler.CopyToTemplate)

	// Reference data
	protected.Get("/buyers", middleware.RequirePrivilege("refdata:view"), refDataHandler.GetBuyers)
	protected.Get("/shipping-methods", middleware.RequirePrivilege("refdata:view"), refDataHandler.GetShippingMethods)
	protected.Get("/shipping-receptacles", middleware.RequirePrivilege("refdata:view"), refDataHandler.GetShippingReceptacles)
	protected.Get("/product-variations", middleware.RequirePrivilege("refdata:view"), refDataHandler.GetProductVariations)
	protected.Get("/production-zones", middleware.RequirePrivilege("refdata:view"), refDataHandler.GetProductionZones)
	protected.Get("/order-categories", middleware.RequirePrivilege("refdata:view"), refDataHandler.GetOrderCategories)
	protected.Get("/estimates/per-box", middleware.RequirePrivilege("refdata:view"), refDataHandler.GetPerBoxEstimate)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// MANAGER gets every privilege
	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		db.Model(&managerRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MANAGER role assigned all privileges")
	}

	// SALES gets order entry and read access only
	salesRole, err := roleRepo.FindByCode(model.RoleSales)
	if err == nil && len(salesRole.Privileges) == 0 {
		salesPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "production:create", "production:update", "production:delete", "template:delete":
				continue
			}
			salesPrivileges = append(salesPrivileges, p)
		}
		db.Model(&salesRole).Association("Privileges").Replace(salesPrivileges)
		log.Println("SALES role assigned limited privileges")
	}

	// Default manager user
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		managerRole, _ := roleRepo.FindByCode(model.RoleManager)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Fulfillment Manager",
			RoleID:     &managerRole.ID,
			IsActive:   true,
			Privileges: managerRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MANAGER)")
		}
	}
}
