package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alavanca/alavanca/config"
	"alavanca/alavanca/controllers"
	"alavanca/alavanca/realtime"
	"alavanca/alavanca/routes"
	"alavanca/alavanca/sources/psql"
	"alavanca/alavanca/sources/psql/dao"
	"alavanca/alavanca/sources/storage"
	"alavanca/alavanca/syncsched"
	httputils "alavanca/alavanca/utils/http"
	"alavanca/alavanca/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	chatDAO := dao.NewChatMessageDAO(db.DB)
	leadDAO := dao.NewLeadDAO(db.DB)
	roleDAO := dao.NewUserRoleDAO(db.DB)

	var externalDAO *dao.ExternalLeadDAO
	if cfg.ExternalDBDSN != "" {
		external, err := psql.NewExternalDatabase(ctx, cfg.ExternalDBDSN)
		if err != nil {
			logging.ErrorLogger.Error("external database connection error", zap.Error(err))
			os.Exit(1)
		}
		defer external.Close()
		externalDAO = dao.NewExternalLeadDAO(external.DB)
	}

	var store *storage.Client
	if cfg.MinIOEndpoint != "" {
		store, err = storage.NewClient(cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
	}

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	chatCtrl := controllers.NewChatController(chatDAO, cfg.WebhookURL, httputils.DefaultClient)
	adminCtrl := controllers.NewAdminController(roleDAO, leadDAO, chatDAO)
	syncCtrl := controllers.NewSyncController(leadDAO, externalDAO)
	exportCtrl := controllers.NewExportController(leadDAO, store)
	healthCtrl := controllers.NewHealthController()

	initialLeads, err := leadDAO.GetAllLeads(ctx)
	if err != nil {
		logging.ErrorLogger.Error("initial lead load error", zap.Error(err))
		os.Exit(1)
	}
	hub := realtime.NewHub(initialLeads)

	listenCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	go realtime.NewListener(cfg.PostgresDSN(), hub).Run(listenCtx)

	if cfg.SyncSchedule != "" {
		if !syncsched.ValidSchedule(cfg.SyncSchedule) {
			logging.ErrorLogger.Error("invalid sync schedule, scheduler disabled",
				zap.String("schedule", cfg.SyncSchedule))
		} else {
			sched, err := syncsched.Start(cfg.SyncSchedule, func() {
				runCtx, done := context.WithTimeout(context.Background(), 2*time.Minute)
				defer done()
				synced, err := syncCtrl.SyncLeads(runCtx)
				if err != nil {
					logging.ErrorLogger.Error("scheduled lead sync failed", zap.Error(err))
					return
				}
				logging.AppLogger.Info("scheduled lead sync complete", zap.Int("synced", synced))
			})
			if err != nil {
				logging.ErrorLogger.Error("scheduler start error", zap.Error(err))
			} else {
				defer sched.Stop()
			}
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl, cfg))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/admin", routes.AdminRoutes(routes.AdminControllers{
		Admin:  adminCtrl,
		Sync:   syncCtrl,
		Export: exportCtrl,
		Hub:    hub,
	}, cfg))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("server started", zap.String("port", cfg.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	stopListener()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
