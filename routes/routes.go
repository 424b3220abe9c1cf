package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"qr-restaurant/controllers"
	"qr-restaurant/events"
	"qr-restaurant/middleware"
	"qr-restaurant/repositories"
	"qr-restaurant/services"
)

func SetupRoutes(router *gin.Engine, bus *events.Bus) {
	orderService := services.NewOrderService(
		repositories.NewOrderRepository(),
		repositories.NewMenuRepository(),
		repositories.NewTableRepository(),
		bus,
	)

	authCtrl := controllers.NewAuthController()
	userCtrl := controllers.NewUserController()
	menuCtrl := controllers.NewMenuController()
	tableCtrl := controllers.NewTableController()
	orderCtrl := controllers.NewOrderController(orderService)
	wsCtrl := controllers.NewWSController(bus)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// Customer-facing: no auth, reached via the table QR code.
	router.POST("/auth/login", authCtrl.Login)
	router.GET("/categories", menuCtrl.GetAllCategories)
	router.GET("/menu", menuCtrl.GetMenu)
	router.GET("/menu/:id", menuCtrl.GetMenuItem)
	router.GET("/tables/number/:number", tableCtrl.GetTableByNumber)
	router.GET("/tables/:id/orders", orderCtrl.GetTableOrders)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/:id", orderCtrl.GetOrder)
	router.GET("/ws/table/:number", wsCtrl.TableSocket)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/profile", authCtrl.GetProfile)
		auth.POST("/auth/change-password", authCtrl.ChangePassword)

		staff := auth.Group("/")
		staff.Use(middleware.RoleMiddleware("kitchen", "admin"))
		{
			staff.GET("/kitchen/orders", orderCtrl.GetKitchenOrders)
			staff.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
			staff.GET("/ws/kitchen", wsCtrl.KitchenSocket)
		}
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("admin"))
	{
		admin.GET("/dashboard", orderCtrl.GetDashboard)

		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/users/:id", userCtrl.GetUserByID)
		admin.POST("/users", userCtrl.CreateUser)
		admin.PATCH("/users/:id", userCtrl.UpdateUser)
		admin.DELETE("/users/:id", userCtrl.DeleteUser)

		admin.POST("/categories", menuCtrl.CreateCategory)
		admin.PATCH("/categories/:id", menuCtrl.UpdateCategory)
		admin.DELETE("/categories/:id", menuCtrl.DeleteCategory)

		admin.POST("/menu", menuCtrl.CreateMenuItem)
		admin.PATCH("/menu/:id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu/:id", menuCtrl.DeleteMenuItem)

		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.PATCH("/tables/:id", tableCtrl.UpdateTable)
		admin.DELETE("/tables/:id", tableCtrl.DeleteTable)
		admin.POST("/tables/:id/qr", tableCtrl.GenerateQR)

		admin.DELETE("/orders/:id", orderCtrl.DeleteOrder)
	}

	router.Static("/uploads", "./uploads")
}
