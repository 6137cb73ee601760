package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"peoplehub/api/internal/cache"
	"peoplehub/api/internal/config"
	"peoplehub/api/internal/intelligence"
	"peoplehub/api/internal/middleware"
	"peoplehub/api/internal/models"
	"peoplehub/api/internal/repository"
	"peoplehub/api/internal/service"
	"peoplehub/api/internal/storage"
)

type HandlerSet struct {
	log            zerolog.Logger
	cfg            *config.AppConfig
	db             *pgxpool.Pool
	cache          *redis.Client
	authService    *service.AuthService
	tenantService  *service.TenantService
	permService    *service.PermissionService
	absenceService *service.AbsenceService
	assist         *intelligence.Client
	objects        *storage.ObjectStore
	users          *repository.UserRepository
	sessions       *repository.SessionRepository
	employees      *repository.EmployeeRepository
	absences       *repository.AbsenceRepository
	notifications  *repository.NotificationRepository
	companies      *repository.CompanyRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, objectStore *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	tenantSessionRepo := repository.NewTenantSessionRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	store := cache.NewStore(redisClient)

	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	tenants := service.NewTenantService(tenantSessionRepo, companyRepo, store, auditRepo, cfg, log)
	perms := service.NewPermissionService(permissionRepo, store, cfg.Security.JWTRefreshTTL, log)
	absences := service.NewAbsenceService(absenceRepo, employeeRepo, auditRepo, objectStore, store, log)
	assist := intelligence.NewClient(cfg.Providers, log)

	return HandlerSet{
		log:            log,
		cfg:            cfg,
		db:             db,
		cache:          redisClient,
		authService:    auth,
		tenantService:  tenants,
		permService:    perms,
		absenceService: absences,
		assist:         assist,
		objects:        objectStore,
		users:          userRepo,
		sessions:       sessionRepo,
		employees:      employeeRepo,
		absences:       absenceRepo,
		notifications:  notificationRepo,
		companies:      companyRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)

		protected := v1.Group("/auth")
		protected.Use(h.authMiddleware())
		protected.GET("/me", h.Me)
		protected.GET("/sessions", h.ListSessions)
		protected.DELETE("/sessions/:deviceId", h.RevokeSession)
	}

	tenant := v1.Group("/tenant")
	tenant.Use(h.authMiddleware(), middleware.RequireRoles(models.UserRoleSuperAdmin))
	{
		tenant.POST("/enter", h.EnterTenant)
		tenant.POST("/leave", h.LeaveTenant)
		tenant.GET("/context", h.TenantContext)
	}

	perms := v1.Group("/permissions")
	perms.Use(h.authMiddleware())
	{
		perms.GET("/roles/:role", h.ListGrants)
		perms.PUT("/roles/:role",
			middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin),
			h.UpdateGrant,
		)
		perms.DELETE("/roles/:role/modules/:module",
			middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin),
			h.DeleteGrant,
		)
		perms.POST("/preview", h.ActivatePreview)
		perms.DELETE("/preview", h.DeactivatePreview)
		perms.GET("/preview", h.PreviewState)
	}

	employees := v1.Group("/employees")
	employees.Use(h.authMiddleware())
	{
		employees.GET("/me", h.MyEmployeeProfile)
		employees.GET("", middleware.RequirePermission(h.permService, "employees", "view"), h.ListEmployees)
		employees.GET("/:id", middleware.RequirePermission(h.permService, "employees", "view"), h.GetEmployee)
		employees.POST("", middleware.RequirePermission(h.permService, "employees", "create"), h.CreateEmployee)
		employees.PUT("/:id/bank-details", middleware.RequirePermission(h.permService, "employees", "edit"), h.UpdateBankDetails)
	}

	absences := v1.Group("/absences")
	absences.Use(h.authMiddleware())
	{
		absences.GET("", middleware.RequirePermission(h.permService, "absences", "view"), h.ListAbsences)
		absences.POST("", middleware.RequirePermission(h.permService, "absences", "create"), h.CreateAbsence)
		absences.POST("/:id/decision", middleware.RequirePermission(h.permService, "absences", "approve"), h.DecideAbsence)
		absences.POST("/:id/document", middleware.RequirePermission(h.permService, "absences", "edit"), h.UploadAbsenceDocument)
		absences.GET("/:id/document", middleware.RequirePermission(h.permService, "absences", "view"), h.AbsenceDocumentURL)
	}

	notifications := v1.Group("/notifications")
	notifications.Use(h.authMiddleware())
	{
		notifications.GET("", h.ListNotifications)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}

	assist := v1.Group("/assist")
	assist.Use(h.authMiddleware())
	{
		assist.POST("/voice-to-text", h.VoiceToText)
		assist.POST("/text-to-speech", h.TextToSpeech)
		assist.POST("/translate", h.Translate)
		assist.POST("/detect-language", h.DetectLanguage)
	}

	admin := v1.Group("/admin")
	admin.Use(h.authMiddleware(), middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin))
	{
		admin.GET("/users", h.AdminListUsers)
		admin.GET("/companies", h.AdminListCompanies)
	}

	hooks := v1.Group("/hooks")
	hooks.Use(middleware.Webhook(h.cfg))
	{
		hooks.POST("/absence-changed", h.AbsenceChangedHook)
	}
}

func (h HandlerSet) authMiddleware() gin.HandlerFunc {
	return middleware.Auth(h.cfg, h.users, h.sessions, h.tenantService)
}
