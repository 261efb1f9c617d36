// Package httpapi exposes the asset lifecycle operations over a thin JSON
// API. All business rules live in the service layer; handlers only decode,
// delegate and map errors.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/limiter"
	"github.com/trackops/assetkeeper/internal/model"
	"github.com/trackops/assetkeeper/internal/service"
)

// actorHeader carries the acting user's display name. It is opaque free text
// used for audit attribution only; identity resolution happens upstream of
// this service.
const actorHeader = "X-Acting-User"

// DirectoryAdmin is the minimal write surface for directory entities,
// implemented by the postgres directory repository.
type DirectoryAdmin interface {
	CreateUser(ctx context.Context, u *model.User) error
	CreateSite(ctx context.Context, s *model.Site) error
	CreateLocation(ctx context.Context, l *model.Location) error
}

// Server wires the asset service into HTTP handlers.
type Server struct {
	assets *service.AssetService
	dir    DirectoryAdmin
}

// NewRouter builds the gin engine with middleware and all routes registered.
// lim may be nil to disable write throttling. dev enables permissive CORS
// for a local frontend.
func NewRouter(assets *service.AssetService, dir DirectoryAdmin, lim limiter.Limiter, log *zap.Logger, dev bool) *gin.Engine {
	s := &Server{assets: assets, dir: dir}

	r := gin.New()
	r.Use(Recover(log), RequestLogger(log))
	if lim != nil {
		r.Use(WriteThrottle(lim, log))
	}
	_ = r.SetTrustedProxies(nil)

	if dev {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowHeaders:  []string{"Origin", "Content-Type", actorHeader, requestIDHeader},
			ExposeHeaders: []string{"Content-Length", requestIDHeader},
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api/v1")

	api.POST("/assets", s.createAsset)
	api.GET("/assets", s.listAssets)
	api.GET("/assets/:tag", s.getAsset)
	api.PATCH("/assets/:tag", s.updateAsset)
	api.DELETE("/assets/:tag", s.softDeleteAsset)
	api.GET("/assets/:tag/history", s.assetHistory)

	api.POST("/assets/:tag/checkout", s.checkOut)
	api.POST("/assets/:tag/checkin", s.checkIn)
	api.POST("/assets/:tag/reserve", s.reserve)
	api.POST("/assets/:tag/dispose", s.dispose)
	api.POST("/assets/:tag/lost", s.markAsLost)
	api.POST("/assets/:tag/repair", s.markInRepair)
	api.POST("/assets/:tag/status", s.updateStatus)
	api.POST("/assets/:tag/reset", s.resetStatus)

	api.POST("/users", s.createUser)
	api.POST("/sites", s.createSite)
	api.POST("/locations", s.createLocation)

	return r
}

// actor extracts the acting user header; an empty actor is a request error.
func actor(c *gin.Context) (string, bool) {
	a := c.GetHeader(actorHeader)
	if a == "" {
		c.JSON(http.StatusBadRequest, errorBody{
			Code:    "VALIDATION",
			Message: "missing " + actorHeader + " header",
		})
		return "", false
	}
	return a, true
}

func writeError(c *gin.Context, err error) {
	c.JSON(httpStatus(err), errorFrom(err))
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorFrom(err error) errorBody {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return errorBody{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, errs.ErrNotFound):
		return errorBody{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, errs.ErrConflict):
		return errorBody{Code: "CONFLICT", Message: err.Error()}
	default:
		return errorBody{Code: "INTERNAL", Message: "internal error"}
	}
}
