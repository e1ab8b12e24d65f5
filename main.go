package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"plantPactAPI/config"
	"plantPactAPI/handlers"
	"plantPactAPI/internal/notification"
	"plantPactAPI/internal/sequence"
	"plantPactAPI/middleware"
	"plantPactAPI/services"
	"plantPactAPI/storage/postgres"
	"plantPactAPI/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	utils.InitLogger(cfg.LogLevel, cfg.Environment)
	defer utils.SyncLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		utils.Log.Fatalw("failed to connect to database", "error", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		utils.Log.Fatalw("failed to migrate schema", "error", err)
	}
	utils.Log.Infow("connected to database")

	loc := cfg.DayLocation()
	challengeStore := store.Challenges()
	commitStore := store.Commits().WithLocation(loc)
	userStore := store.Users()
	notificationStore := store.Notifications()
	allocator := sequence.New(store.Sequences())

	var pushProvider services.PushProvider
	if fcm, err := notification.NewFCMProvider(ctx, cfg.FCMServiceAccountJSON, cfg.FCMCredentialsFile); err != nil {
		utils.Log.Warnw("FCM unavailable, falling back to log-only pushes", "error", err)
		pushProvider = notification.LogProvider{}
	} else {
		pushProvider = fcm
		utils.Log.Infow("FCM push provider initialized")
	}

	challengeService := services.NewChallengeService(challengeStore, commitStore, userStore, allocator, loc)
	commitService := services.NewCommitService(commitStore, challengeStore, userStore, allocator, loc)
	userService := services.NewUserService(userStore, challengeService, allocator, cfg.JWTSecret)
	notificationService := services.NewNotificationService(notificationStore, challengeStore, userStore, pushProvider, loc, cfg.StingsPerDay)
	viewService := services.NewViewService(challengeStore, commitStore, userStore, notificationStore, loc)

	userHandler := handlers.NewUserHandler(userService)
	challengeHandler := handlers.NewChallengeHandler(challengeService, notificationService)
	commitHandler := handlers.NewCommitHandler(commitService, notificationService)
	viewHandler := handlers.NewViewHandler(viewService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	middleware.InitPrometheus()
	go middleware.CleanupVisitors()

	r := mux.NewRouter()
	r.Use(middleware.RateLimit)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Monitor)

	r.Handle("/metrics", middleware.BasicAuth(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "plantPact-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/users/signup", userHandler.SignUp).Methods("POST")
	api.HandleFunc("/users/signin", userHandler.SignIn).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))

	protected.HandleFunc("/users/me", userHandler.Me).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/users/partner", userHandler.CheckPartner).Methods("GET")
	protected.HandleFunc("/users/partner", userHandler.DeletePartner).Methods("DELETE")
	protected.HandleFunc("/users/nickname", userHandler.SetNickname).Methods("POST")
	protected.HandleFunc("/users/nickname", userHandler.ChangeNickname).Methods("PUT")
	protected.HandleFunc("/users/device-token", userHandler.UpdateDeviceToken).Methods("PUT")

	protected.HandleFunc("/challenges", challengeHandler.Create).Methods("POST")
	protected.HandleFunc("/challenges", challengeHandler.List).Methods("GET")
	protected.HandleFunc("/challenges/recent", challengeHandler.Recent).Methods("GET")
	protected.HandleFunc("/challenges/histories", challengeHandler.Histories).Methods("GET")
	protected.HandleFunc("/challenges/{challengeNo:[0-9]+}", challengeHandler.Get).Methods("GET")
	protected.HandleFunc("/challenges/{challengeNo:[0-9]+}", challengeHandler.Update).Methods("PUT")
	protected.HandleFunc("/challenges/{challengeNo:[0-9]+}", challengeHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/challenges/{challengeNo:[0-9]+}/approve", challengeHandler.Approve).Methods("POST")
	protected.HandleFunc("/challenges/{challengeNo:[0-9]+}/finish", challengeHandler.Finish).Methods("POST")
	protected.HandleFunc("/challenges/{challengeNo:[0-9]+}/growth-diary", challengeHandler.GrowthDiary).Methods("GET")

	protected.HandleFunc("/commits", commitHandler.Create).Methods("POST")
	protected.HandleFunc("/commits/today", commitHandler.Today).Methods("GET")
	protected.HandleFunc("/commits/{commitNo:[0-9]+}", commitHandler.Get).Methods("GET")
	protected.HandleFunc("/commits/{commitNo:[0-9]+}", commitHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/commits/{commitNo:[0-9]+}/comment", commitHandler.AddPartnerComment).Methods("POST")

	protected.HandleFunc("/view/home", viewHandler.Home).Methods("GET")

	protected.HandleFunc("/notifications/sting", notificationHandler.Sting).Methods("POST")
	protected.HandleFunc("/notifications/sting/count", notificationHandler.StingCount).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		utils.Log.Infow("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatalw("server failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	sig := <-sigChan
	utils.Log.Infow("shutting down", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Log.Errorw("server shutdown error", "error", err)
	}
	utils.Log.Infow("server shutdown complete")
}
