package main

import (
	"fmt"
	"log"
	"os"

	apirest "github.com/aethermere/campaign/server/api/rest"
	"github.com/aethermere/campaign/server/audit"
	"github.com/aethermere/campaign/server/cache"
	"github.com/aethermere/campaign/server/config"
	dbadapter "github.com/aethermere/campaign/server/db"
	mw "github.com/aethermere/campaign/server/middleware"
	"github.com/aethermere/campaign/server/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Security.JWTSecret == "" {
		log.Fatal("security.jwt_secret must be set")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(nil)

	// ---- Session cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		GCInterval:    cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Session cache initialized")

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	districtH := apirest.NewDistrictHandler(db, auditSvc)
	guildH := apirest.NewGuildHandler(db, auditSvc)
	relH := apirest.NewRelationshipHandler(db, auditSvc)
	noteH := apirest.NewNoteHandler(db)
	qrH := apirest.NewQuickRefHandler(db, auditSvc)
	adminH := apirest.NewAdminHandler(db, auditSvc, cfg.Security)

	api := r.Group("/api")
	{
		api.POST("/auth/login", authH.Login)

		authed := api.Group("", mw.Auth(cfg.Security, c, db))

		authed.POST("/auth/logout", authH.Logout)
		authed.POST("/auth/refresh", authH.Refresh)

		authed.GET("/districts", districtH.List)
		authed.GET("/districts/:id", districtH.Detail)
		authed.PUT("/districts/:id", districtH.Update)

		authed.GET("/guilds", guildH.List)
		authed.POST("/guilds", guildH.Create)
		authed.GET("/guilds/:id", guildH.Detail)
		authed.PUT("/guilds/:id", guildH.Update)
		authed.DELETE("/guilds/:id", guildH.Delete)

		authed.GET("/relationships", relH.List)
		authed.POST("/relationships", relH.Create)
		authed.PUT("/relationships/:id", relH.Update)
		authed.DELETE("/relationships/:id", relH.Delete)

		authed.GET("/notes", noteH.ListForTarget)
		authed.POST("/notes", noteH.Upsert)
		authed.PUT("/notes/:id", noteH.Update)
		authed.DELETE("/notes/:id", noteH.Delete)

		authed.GET("/quickref", qrH.Get)
		authed.PUT("/quickref", qrH.Update)
		authed.GET("/users/:id/quickref", qrH.Get)
		authed.PUT("/users/:id/quickref", qrH.Update)

		adminG := authed.Group("/admin",
			mw.IPWhitelist(cfg.Security.AdminIPWhitelist), mw.RequireAdmin())
		adminG.GET("/users", adminH.ListUsers)
		adminG.POST("/users", adminH.CreateUser)
		adminG.DELETE("/users/:id", adminH.DeleteUser)
		adminG.POST("/users/:id/reset-password", adminH.ResetPassword)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
