// Package httpapi exposes the job-board API over HTTP: a gin router, the
// JSON response envelope, request validation against the declared binding
// contracts, and the authorization gate for protected routes.
package httpapi

import (
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nextjob/nextjob/internal/auth"
	"github.com/nextjob/nextjob/internal/config"
	"github.com/nextjob/nextjob/internal/job"
	"github.com/nextjob/nextjob/internal/store"
	"github.com/nextjob/nextjob/internal/token"
)

// API bundles the handler dependencies. Construct once with New and mount
// via Router.
type API struct {
	auth   *auth.Service
	jobs   *job.Service
	users  *store.UserStore
	tokens *token.Manager
	log    *slog.Logger

	production  bool
	frontendURL string
	tokenTTL    time.Duration
}

// New builds the API from its collaborators and the loaded configuration.
func New(cfg config.Config, authSvc *auth.Service, jobSvc *job.Service, users *store.UserStore, tokens *token.Manager, log *slog.Logger) *API {
	return &API{
		auth:        authSvc,
		jobs:        jobSvc,
		users:       users,
		tokens:      tokens,
		log:         log,
		production:  cfg.Production(),
		frontendURL: cfg.FrontendURL,
		tokenTTL:    cfg.TokenTTL,
	}
}

func init() {
	// Validation errors report the json field name, not the Go one.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Router assembles the full route table.
func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLogger(), a.cors())

	r.GET("/", func(c *gin.Context) {
		respondMessage(c, http.StatusOK, "Welcome to Next Job API")
	})
	r.GET("/healthz", func(c *gin.Context) {
		respondMessage(c, http.StatusOK, "API is healthy")
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", a.register)
		authGroup.POST("/request-otp", a.requestOTP)
		authGroup.POST("/verify-email", a.verifyEmail)
		authGroup.POST("/login", a.login)
		authGroup.POST("/logout", a.logout)

		me := authGroup.Group("/me", a.RequireAuth())
		{
			me.GET("", a.profile)
			me.PUT("", a.updateProfile)
			me.DELETE("", a.deleteProfile)
			me.GET("/role", a.role)
			me.PUT("/role", a.updateRole)
		}

		admin := authGroup.Group("", a.RequireAuth(), a.RequireRole(store.RoleAdmin))
		{
			admin.GET("", a.listUsers)
			admin.GET("/:id", a.userByID)
			admin.PUT("/:id", a.updateUserByID)
			admin.DELETE("/:id", a.deleteUserByID)
			admin.GET("/email/:email", a.userByEmail)
			admin.PUT("/email/:email", a.updateUserByEmail)
		}
	}

	jobs := r.Group("/api/jobs")
	{
		jobs.GET("", a.listJobs)

		protected := jobs.Group("", a.RequireAuth())
		{
			protected.GET("/employer-jobs", a.employerJobs)
			protected.GET("/user-jobs", a.appliedJobs)
			protected.GET("/:id", a.jobByID)
			protected.DELETE("/:id", a.deleteJob)
			protected.PUT("/:id", a.updateJob)
			protected.POST("/:id/apply", a.applyToJob)
			protected.GET("/:id/applicants", a.jobApplicants)
			protected.POST("", a.RequireRole(store.RoleEmployer, store.RoleAdmin), a.createJob)
		}
	}

	return r
}
