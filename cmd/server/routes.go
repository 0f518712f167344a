package main

import (
	"expenseflow.backend/internal/interfaces/http/handlers"
	"expenseflow.backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	authHandler      *handlers.AuthHandler
	expenseHandler   *handlers.ExpenseHandler
	approvalHandler  *handlers.ApprovalHandler
	dashboardHandler *handlers.DashboardHandler
	adminHandler     *handlers.AdminHandler
	authMiddleware   gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Expense routes (protected)
		expenses := v1.Group("/expenses")
		expenses.Use(d.authMiddleware)
		{
			expenses.POST("", d.expenseHandler.Create)
			expenses.GET("", d.expenseHandler.List)
			expenses.GET("/:id", d.expenseHandler.Get)
			expenses.POST("/scan-receipt", d.expenseHandler.ScanReceipt)
		}

		// Approval routes (managers and admins)
		approvals := v1.Group("/approvals")
		approvals.Use(d.authMiddleware, middleware.RequireManager())
		{
			approvals.POST("/process", middleware.IdempotencyMiddleware(), d.approvalHandler.Process)
			approvals.GET("/:expenseId/history", d.approvalHandler.History)
		}

		// Dashboard routes (managers and admins)
		dashboard := v1.Group("/dashboard")
		dashboard.Use(d.authMiddleware, middleware.RequireManager())
		{
			dashboard.GET("/manager/:managerId", d.dashboardHandler.Manager)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/users", d.adminHandler.CreateUser)
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/users/:id", d.adminHandler.GetUser)
			admin.PUT("/users/:id", d.adminHandler.UpdateUser)
			admin.DELETE("/users/:id", d.adminHandler.DeleteUser)
			admin.GET("/managers", d.adminHandler.ListManagers)

			admin.PUT("/company/currency", d.adminHandler.UpdateCurrency)
			admin.POST("/expenses/:id/override", d.adminHandler.OverrideExpense)

			admin.GET("/dashboard", d.adminHandler.Dashboard)
		}
	}
}
