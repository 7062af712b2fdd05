package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/soof-golan/tix-q/internal/app"
	"github.com/soof-golan/tix-q/internal/config"
	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/controllers"
	"github.com/soof-golan/tix-q/internal/middleware"
	"github.com/soof-golan/tix-q/internal/repositories"
	"github.com/soof-golan/tix-q/internal/routes"
	"github.com/soof-golan/tix-q/internal/services"
	"github.com/soof-golan/tix-q/internal/utils"
)

func main() {
	utils.InitLogger(constants.AppName)

	// 1) Config
	cfg := config.LoadConfig()

	// 2) Core application (DB pool)
	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("App initialization failed")
	}
	defer application.Close()

	// 3) Repositories
	roomRepo := repositories.NewRoomRepository(application.DB)
	registrantRepo := repositories.NewRegistrantRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)

	// 4) Services
	lookups := services.NewLookupCache(roomRepo, userRepo)
	verifier := services.NewTurnstileVerifier(cfg.TurnstileSecret)
	notifier := services.NewDeployNotifier(cfg.DeployHookURL)
	admissionSvc := services.NewAdmissionService(verifier, lookups, registrantRepo)
	roomSvc := services.NewRoomService(roomRepo, lookups, notifier)

	// 5) Controllers
	healthCtrl := controllers.NewHealthController(application)
	registerCtrl := controllers.NewRegisterController(admissionSvc)
	roomCtrl := controllers.NewRoomController(roomSvc)

	// 6) Router
	auth := middleware.AuthMiddleware(cfg.JWTSecret, lookups)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret, lookups)

	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Register, registerCtrl.Register).Methods(http.MethodPost)
	router.Handle(routes.RoomCreate, auth(http.HandlerFunc(roomCtrl.CreateRoom))).Methods(http.MethodPost)
	router.Handle(routes.RoomUpdate, auth(http.HandlerFunc(roomCtrl.UpdateRoom))).Methods(http.MethodPost)
	router.Handle(routes.RoomRead, optionalAuth(http.HandlerFunc(roomCtrl.ReadRoom))).Methods(http.MethodGet)

	// 7) CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			constants.TurnstileTokenHeader,
		},
		AllowCredentials: true,
		MaxAge:           3600,
	})

	utils.Logger.Infof("Starting %s on :%s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, c.Handler(router)); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
