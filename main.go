package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"steamCompareAPI/handlers"
	"steamCompareAPI/internal/openid"
	"steamCompareAPI/internal/session"
	"steamCompareAPI/middleware"
	"steamCompareAPI/services"

	_ "net/http/pprof"
)

var (
	sessionManager *session.Manager
	openIDClient   *openid.Client
	steamService   *services.SteamService
	compareService *services.CompareService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	apiKey := os.Getenv("STEAM_API_KEY")
	if apiKey == "" {
		log.Fatal("STEAM_API_KEY environment variable is not set")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is not set")
	}

	returnURL := os.Getenv("RETURN_URL")
	if returnURL == "" {
		returnURL = "http://localhost:3000/auth/login/return"
	}
	realm := os.Getenv("REALM")
	if realm == "" {
		realm = "http://localhost:3000/"
	}

	sessionManager = session.NewManager(sessionSecret)
	openIDClient = openid.NewClient(realm, returnURL)
	steamService = services.NewSteamService(apiKey)
	compareService = services.NewCompareService(steamService)

	middleware.InitPrometheus()
}

func main() {
	authHandler := handlers.NewAuthHandler(openIDClient, sessionManager, steamService)
	steamHandler := handlers.NewSteamHandler(steamService, compareService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimit)
	r.Use(middleware.Monitor)

	r.Handle("/metrics", middleware.BasicAuth(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurity(http.DefaultServeMux))

	publicDir := "./public"
	fs := http.FileServer(http.Dir(publicDir))
	r.PathPrefix("/public/").Handler(http.StripPrefix("/public/", fs))

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "steam-compare-api"}`))
	}).Methods("GET")

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, publicDir+"/index.html")
	}).Methods("GET")

	r.HandleFunc("/auth/login", authHandler.Login).Methods("GET")
	r.HandleFunc("/auth/login/return", authHandler.LoginReturn).Methods("GET")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE SESSION COOKIE)
	// -------------------------------------------------------------------------
	gate := middleware.SessionAuth(sessionManager)

	r.Handle("/dashboard", gate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, publicDir+"/dashboard.html")
	}))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(gate)

	api.HandleFunc("/me", steamHandler.Me).Methods("GET")
	api.HandleFunc("/friends", steamHandler.Friends).Methods("GET")
	api.HandleFunc("/games", steamHandler.Games).Methods("GET")
	api.HandleFunc("/common-games", steamHandler.CommonGames).Methods("GET")
	api.HandleFunc("/achievements", steamHandler.Achievements).Methods("GET")

	// CORS configuration
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "X-Pprof-Secret"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
