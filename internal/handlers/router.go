package handlers

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(payments *PaymentHandler, methods *PaymentMethodHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/payments/:id", payments.Get)
		v1.POST("/payments/:id/authorize", payments.Authorize)
		v1.POST("/payments/:id/capture", payments.Capture)
		v1.POST("/payments/:id/void", payments.Void)
		v1.POST("/payments/:id/refund", payments.Refund)

		v1.GET("/payment-methods/:id", methods.Get)
		v1.POST("/payment-methods", methods.Create)
		v1.DELETE("/payment-methods/:id", methods.Delete)
	}

	return router
}
