package main

import (
	"flag"
	"os"
	"time"

	"halqa-daily/internal/config"
	"halqa-daily/internal/handler"
	"halqa-daily/internal/logger"
	"halqa-daily/internal/mailer"
	"halqa-daily/internal/middleware"
	"halqa-daily/internal/model"
	"halqa-daily/internal/service"
	"halqa-daily/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Halqa{}, &model.DailyCard{}, &model.SiteSettings{}); err != nil {
		logger.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	var tokens token.Store
	if cfg.Redis.Addr != "" {
		tokens, err = token.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("redis connect failed", "err", err)
			os.Exit(1)
		}
		logger.Info("reset tokens backed by redis", "addr", cfg.Redis.Addr)
	} else {
		tokens = token.NewMemoryStore()
		logger.Warn("redis not configured, reset tokens held in memory")
	}

	primaryID, err := service.EnsurePrimaryAdmin(db, cfg.Admin.Email)
	if err != nil {
		logger.Error("primary admin provisioning failed", "err", err)
		os.Exit(1)
	}

	secret := []byte(cfg.JWT.Secret)
	expire := time.Duration(cfg.JWT.ExpireHours) * time.Hour
	resetTTL := time.Duration(cfg.Redis.ResetTTLMinutes) * time.Minute

	mail := mailer.New(cfg.Mail, cfg.Admin.Email, db)
	authSvc := service.NewAuthService(db, tokens, mail, resetTTL, primaryID)
	scopeSvc := service.NewScopeService(db)
	cardSvc := service.NewCardService(db, cfg.Cards.AllowEdit)
	analyticsSvc := service.NewAnalyticsService(db)
	adminSvc := service.NewAdminService(db, primaryID)

	authH := handler.NewAuthHandler(authSvc, secret, expire)
	participantH := handler.NewParticipantHandler(cardSvc, scopeSvc, analyticsSvc)
	supervisorH := handler.NewSupervisorHandler(scopeSvc, cardSvc, analyticsSvc, adminSvc)
	adminH := handler.NewAdminHandler(adminSvc, analyticsSvc)
	exportH := handler.NewExportHandler(db, analyticsSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-New-Token", "Content-Disposition"},
		AllowCredentials: true,
	}))

	auth := r.Group("/api/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password", authH.ResetPassword)

	account := r.Group("/api/auth", middleware.JWTAuth(secret, expire))
	account.GET("/me", authH.Me)
	account.PUT("/profile", authH.UpdateProfile)
	account.PUT("/change-password", authH.ChangePassword)

	participant := r.Group("/api/participant",
		middleware.JWTAuth(secret, expire), middleware.RequireRoles(db))
	participant.POST("/cards", participantH.SaveCard)
	participant.GET("/cards", participantH.ListCards)
	participant.GET("/cards/:date", participantH.GetCard)
	participant.GET("/stats", participantH.Stats)
	participant.GET("/leaderboard", participantH.Leaderboard)

	supervisor := r.Group("/api/supervisor",
		middleware.JWTAuth(secret, expire),
		middleware.RequireRoles(db, model.RoleSupervisor, model.RoleAdmin))
	supervisor.GET("/halqas", supervisorH.Halqas)
	supervisor.GET("/members", supervisorH.Members)
	supervisor.GET("/members/:id/cards", supervisorH.MemberCards)
	supervisor.GET("/members/:id/cards/:date", supervisorH.MemberCardDetail)
	supervisor.PUT("/members/:id/cards/:date", supervisorH.UpdateMemberCard)
	supervisor.GET("/leaderboard", supervisorH.Leaderboard)
	supervisor.GET("/summary/daily", supervisorH.DailySummary)
	supervisor.GET("/summary/range", supervisorH.RangeSummary)
	supervisor.GET("/summary/weekly", supervisorH.WeeklySummary)

	admin := r.Group("/api/admin",
		middleware.JWTAuth(secret, expire),
		middleware.RequireRoles(db, model.RoleAdmin))
	admin.GET("/registrations", adminH.Registrations)
	admin.POST("/registrations/:id/approve", adminH.Approve)
	admin.POST("/registrations/:id/reject", adminH.Reject)
	admin.GET("/users", adminH.Users)
	admin.GET("/users/:id", adminH.GetUser)
	admin.PUT("/users/:id", adminH.UpdateUser)
	admin.PUT("/users/:id/password", adminH.ResetPassword)
	admin.POST("/users/:id/withdraw", adminH.Withdraw)
	admin.POST("/users/:id/activate", adminH.Activate)
	admin.PUT("/users/:id/role", adminH.SetRole)
	admin.POST("/users/:id/halqa", adminH.AssignHalqa)
	admin.GET("/halqas", adminH.Halqas)
	admin.POST("/halqas", adminH.CreateHalqa)
	admin.PUT("/halqas/:id", adminH.UpdateHalqa)
	admin.POST("/halqas/:id/members", adminH.AssignMembers)
	admin.GET("/analytics", adminH.Analytics)
	admin.GET("/export", exportH.Export)
	admin.POST("/import", exportH.Import)
	admin.GET("/import/template", exportH.ImportTemplate)
	admin.GET("/settings", adminH.Settings)
	admin.PUT("/settings", adminH.UpdateSettings)

	logger.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("server failed", "err", err)
	}
}
