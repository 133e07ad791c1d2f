// Package httpapi exposes the public HTTP/JSON surface of the refdata
// service: authentication endpoints, the gated reference-data CRUD and the
// audit export trigger.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/logging"
	"github.com/dvergara-cl/refdata/internal/server/services"
	"github.com/gin-gonic/gin"
)

type HTTPServer struct {
	address   string
	logger    logging.Logger
	auth      *services.AuthService
	tokens    *services.TokenService
	audit     *services.AuditService
	regions   *services.RegionService
	communes  *services.CommuneService
	customers *services.CustomerService
	export    *services.ExportService
}

func NewHTTPServer(address string, l logging.Logger,
	auth *services.AuthService, tokens *services.TokenService, audit *services.AuditService,
	regions *services.RegionService, communes *services.CommuneService,
	customers *services.CustomerService, export *services.ExportService) *HTTPServer {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		auth:      auth,
		tokens:    tokens,
		audit:     audit,
		regions:   regions,
		communes:  communes,
		customers: customers,
		export:    export,
	}
}

// Router builds the gin engine with the full route table. The recorder
// middleware wraps everything so gate rejections are audited too; the gate
// itself only guards the /v1 group.
func (s *HTTPServer) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.auditRecorder())

	auth := router.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
	}

	// Deployed clients call both spellings of the logout route.
	router.GET("/logout", s.gate(), s.handleLogout)

	v1 := router.Group("/v1", s.gate())
	{
		v1.GET("/logout", s.handleLogout)

		v1.GET("/regions", s.handleRegionList)
		v1.POST("/regions", s.handleRegionCreate)
		v1.PUT("/regions/:id", s.handleRegionUpdate)
		v1.DELETE("/regions/:id", s.handleRegionDelete)

		v1.GET("/communes", s.handleCommuneList)
		v1.POST("/communes", s.handleCommuneCreate)
		v1.PUT("/communes/:id", s.handleCommuneUpdate)
		v1.DELETE("/communes/:id", s.handleCommuneDelete)

		v1.GET("/customers", s.handleCustomerList)
		v1.POST("/customers", s.handleCustomerCreate)
		v1.PUT("/customers/:id", s.handleCustomerUpdate)
		v1.DELETE("/customers/:id", s.handleCustomerDelete)

		v1.POST("/audit/export", s.handleAuditExport)
	}

	return router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// renderError maps service errors to the wire format the client expects.
func renderError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": verr.Messages})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": false, "errors": []string{"Not found"}})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"status": false, "errors": []string{"Unauthorized"}})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "errors": []string{"Internal error"}})
	}
}
