// Package handlers provides the HTTP surface: gin route handlers translating
// REST calls into service operations, plus the authentication middleware.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vnrental/backend/internal/auth"
	"github.com/vnrental/backend/internal/company"
	"github.com/vnrental/backend/internal/config"
	"github.com/vnrental/backend/internal/oauth"
	"github.com/vnrental/backend/internal/payment"
	"github.com/vnrental/backend/internal/vehicle"
	"go.uber.org/zap"
)

// Services bundles the business-logic dependencies of the HTTP surface.
type Services struct {
	Auth      *auth.Service
	OAuth     *oauth.Bridge
	Companies *company.Service
	Vehicles  *vehicle.Service
	Payments  *payment.Service
}

// Server wraps the gin engine and its http.Server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds the engine, middleware stack and route table.
func NewServer(cfg *config.Config, tokens *auth.TokenManager, svcs Services, logger *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURLs,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: engine,
		},
		logger: logger,
	}

	authHandler := newAuthHandler(svcs.Auth, logger)
	oauthHandler := newOAuthHandler(svcs.OAuth, cfg.FrontendURL(), logger)
	companyHandler := newCompanyHandler(svcs.Companies, logger)
	vehicleHandler := newVehicleHandler(svcs.Vehicles, logger)
	paymentHandler := newPaymentHandler(svcs.Payments, logger)

	requireAuth := RequireAuth(tokens)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	ar := api.Group("/auth")
	ar.POST("/register/user", authHandler.RegisterUser)
	ar.POST("/register/company", authHandler.RegisterCompany)
	ar.POST("/login", authHandler.Login)
	ar.GET("/oauth/:provider/url", oauthHandler.AuthURL)
	ar.GET("/oauth/:provider/callback", oauthHandler.Callback)
	ar.POST("/verify-business", authHandler.VerifyBusiness)
	ar.GET("/me", requireAuth, authHandler.Me)
	ar.PUT("/profile", requireAuth, RequireUserType(auth.UserTypeUser), authHandler.UpdateProfile)
	ar.POST("/switch-company", requireAuth, RequireUserType(auth.UserTypeCompany), authHandler.SwitchCompany)
	ar.POST("/password/reset-request", authHandler.RequestPasswordReset)
	ar.POST("/password/reset", authHandler.ResetPassword)

	cr := api.Group("/companies", requireAuth, RequireUserType(auth.UserTypeCompany))
	cr.GET("/profile", companyHandler.Profile)
	cr.PUT("/profile", companyHandler.UpdateProfile)
	cr.PUT("/contact-phone", companyHandler.UpdateContactPhone)
	cr.POST("/add", companyHandler.Add)
	cr.GET("/stats", companyHandler.Stats)

	vr := api.Group("/vehicles")
	vr.GET("", vehicleHandler.List)
	vr.POST("", requireAuth, RequireUserType(auth.UserTypeCompany), vehicleHandler.Create)
	vr.GET("/my", requireAuth, RequireUserType(auth.UserTypeCompany), vehicleHandler.My)
	vr.GET("/stats/region", vehicleHandler.StatsByRegion)
	vr.GET("/stats/type", vehicleHandler.StatsByType)
	vr.GET("/:id", vehicleHandler.Get)
	vr.PUT("/:id", requireAuth, RequireUserType(auth.UserTypeCompany), vehicleHandler.Update)
	vr.DELETE("/:id", requireAuth, RequireUserType(auth.UserTypeCompany), vehicleHandler.Delete)

	pr := api.Group("/payments", requireAuth)
	pr.POST("", paymentHandler.Create)
	pr.GET("/status/:vehicleId", paymentHandler.Status)
	pr.GET("/contact/:vehicleId", paymentHandler.Contact)

	return s
}

// Router exposes the engine for in-process testing.
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Start serves HTTP until shutdown or failure.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	s.logger.Info("server stopped")
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
