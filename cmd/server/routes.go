package main

import (
	"github.com/gin-gonic/gin"

	"dropmarket.backend/internal/interfaces/http/handlers"
	"dropmarket.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	orderHandler        *handlers.OrderHandler
	verificationHandler *handlers.VerificationHandler
	adminHandler        *handlers.AdminHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		v1.POST("/auth/token", d.authHandler.IssueToken)

		// Everything else requires an admin JWT
		protected := v1.Group("")
		protected.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			orders := protected.Group("/orders")
			{
				orders.GET("", d.orderHandler.ListOrders)
				orders.GET("/:id", d.orderHandler.GetOrder)
				orders.POST("/:id/complete", d.orderHandler.CompleteOrder)
				orders.POST("/:id/restore", d.orderHandler.RestoreOrder)
			}

			verifications := protected.Group("/verifications")
			{
				verifications.GET("", d.verificationHandler.ListPending)
				verifications.GET("/:userId", d.verificationHandler.GetVerification)
				verifications.POST("/:userId/approve", d.verificationHandler.ApproveVerification)
				verifications.POST("/:userId/reject", d.verificationHandler.RejectVerification)
			}

			protected.GET("/users/:id", d.adminHandler.GetUser)
			protected.POST("/broadcast", d.adminHandler.Broadcast)
			protected.GET("/stats", d.adminHandler.GetStats)
		}
	}
}
