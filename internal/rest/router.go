package rest

import (
	"tecnoroute-be/internal/idempotency"

	"github.com/gin-gonic/gin"
)

// Register mounts every API route on r. The checkout route is wrapped with
// the idempotency middleware when idem is non-nil.
func (h *Handler) Register(r gin.IRouter, idem idempotency.Keeper) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register/", h.register)
		authGroup.POST("/login/", h.login)
		authGroup.POST("/logout/", h.logout)
		authGroup.POST("/check-email/", h.checkEmail)
		authGroup.POST("/check-phone/", h.checkPhone)

		authGroup.POST("/send-verification-code/", h.sendVerificationCode)
		authGroup.POST("/verify-email/", h.verifyEmail)
		authGroup.GET("/email-verified/", h.emailVerified)
		authGroup.POST("/password-reset/request/", h.requestPasswordReset)
		authGroup.POST("/password-reset/verify/", h.verifyResetCode)
		authGroup.POST("/password-reset/confirm/", h.confirmPasswordReset)

		authGroup.GET("/profile/", requireUser, h.getProfile)
		authGroup.PUT("/profile/", requireUser, h.updateProfile)
		authGroup.POST("/change-password/", requireUser, h.changePassword)
		authGroup.DELETE("/delete-account/", requireUser, h.deleteAccount)
	}

	customers := r.Group("/clientes", requireUser)
	{
		customers.GET("/", h.listCustomers)
		customers.GET("/activos/", h.activeCustomers)
		customers.GET("/:id/", h.getCustomer)
		customers.PUT("/:id/", h.updateCustomer)
		customers.DELETE("/:id/", h.deactivateCustomer)
	}

	r.GET("/categorias/", h.listCategories)
	r.POST("/categorias/", requireUser, h.createCategory)

	r.GET("/productos/", h.listProducts)
	r.GET("/productos/:id/", h.getProduct)
	r.POST("/productos/", requireUser, h.createProduct)
	r.PUT("/productos/:id/", requireUser, h.updateProduct)

	carts := r.Group("/carrito", requireUser)
	{
		carts.GET("/", h.getCart)
		carts.POST("/", h.addCartItem)
		carts.PATCH("/", h.updateCartItem)
		carts.DELETE("/", h.removeCartItem)
	}

	orders := r.Group("/pedidos", requireUser)
	{
		checkout := []gin.HandlerFunc{h.createOrder}
		if idem != nil {
			checkout = append([]gin.HandlerFunc{idempotency.Middleware(idem)}, checkout...)
		}
		orders.POST("/", checkout...)
		orders.GET("/", h.listOrders)
		orders.GET("/recientes/", h.recentOrders)
		orders.GET("/disponibles/", h.availableOrders)
		orders.GET("/estadisticas/", h.orderStats)
		orders.GET("/:id/", h.getOrder)
		orders.PUT("/:id/", h.editOrder)
		orders.DELETE("/:id/", h.deleteOrder)
		orders.PATCH("/:id/cambiar_estado/", h.changeOrderStatus)
		orders.POST("/:id/cambiar_estado/", h.changeOrderStatus)
		orders.POST("/:id/asignar_conductor/", h.assignOrderDriver)
	}

	shipments := r.Group("/envios", requireUser)
	{
		shipments.GET("/", h.listShipments)
		shipments.GET("/pendientes/", h.pendingShipments)
		shipments.GET("/en_transito/", h.inTransitShipments)
		shipments.GET("/buscar_por_guia/", h.findShipmentByTrackingNumber)
		shipments.GET("/:id/", h.getShipment)
		shipments.GET("/:id/seguimiento/", h.shipmentTracking)
		shipments.POST("/:id/cambiar_estado/", h.changeShipmentStatus)
		shipments.POST("/:id/asignar_vehiculo_conductor/", h.assignShipment)
	}

	drivers := r.Group("/conductores", requireUser)
	{
		drivers.GET("/", h.listDrivers)
		drivers.POST("/", h.createDriver)
		drivers.GET("/disponibles/", h.availableDrivers)
		drivers.POST("/guardar-datos-vehiculo/", h.saveVehicleDraft)
		drivers.GET("/:id/", h.getDriver)
		drivers.PUT("/:id/", h.updateDriver)
		drivers.DELETE("/:id/", h.deactivateDriver)
		drivers.POST("/:id/cambiar_estado/", h.changeDriverState)
	}

	vehicles := r.Group("/vehiculos", requireUser)
	{
		vehicles.GET("/", h.listVehicles)
		vehicles.POST("/", h.createVehicle)
		vehicles.GET("/disponibles/", h.availableVehicles)
		vehicles.GET("/:id/", h.getVehicle)
		vehicles.PUT("/:id/", h.updateVehicle)
		vehicles.POST("/:id/cambiar_estado/", h.changeVehicleState)
		vehicles.POST("/:id/asignar_conductor/", h.assignVehicleDriver)
	}

	routes := r.Group("/rutas", requireUser)
	{
		routes.GET("/", h.listRoutes)
		routes.POST("/", h.createRoute)
		routes.GET("/activas/", h.activeRoutes)
		routes.GET("/:id/", h.getRoute)
		routes.PUT("/:id/", h.updateRoute)
		routes.DELETE("/:id/", h.deleteRoute)
	}
}
