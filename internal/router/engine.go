package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/internal/devbackend"
	handlers "github.com/oksasatya/realio-auth/internal/interface/http"
	"github.com/oksasatya/realio-auth/internal/interface/middleware"
	"github.com/oksasatya/realio-auth/internal/router/modules"
	"github.com/oksasatya/realio-auth/pkg/validation"
)

// Options configures NewEngine.
type Options struct {
	CORSOrigins  []string
	HTTPLog      bool
	DebugMetrics bool
}

// NewEngine builds the dev backend HTTP handler with every module mounted.
func NewEngine(svc *devbackend.Service, rdb *redis.Client, logger *logrus.Logger, opts Options) *gin.Engine {
	validation.Init()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.HTTPLog {
		r.Use(gin.Logger())
	}

	reg := NewRegistry(r)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, logger), svc, rdb))
	if opts.DebugMetrics {
		reg.Add(modules.NewDebugModule(rdb))
	}
	reg.RegisterAll()
	return r
}
