package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"liftpark/internal/api"
	"liftpark/internal/auth"
	"liftpark/internal/config"
	"liftpark/internal/repository/postgres"
	"liftpark/internal/service"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := conn.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	store := postgres.NewStore(conn)

	allocationSvc := service.NewAllocationService(store.Lots, store.Spots)
	paymentSvc := service.NewPaymentService(cfg.StripeSecretKey)
	notifySvc := service.NewNotifyService(
		cfg.SendgridAPIKey, cfg.SendgridFromEmail,
		cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber,
	)
	bookingSvc := service.NewBookingService(
		store.Bookings, store.Lots, store.Lifts, store.Users,
		allocationSvc, paymentSvc, notifySvc,
	)
	liftSvc := service.NewLiftService(store.Lifts, store.Bookings)
	authSvc := service.NewAuthService(store.Users, cfg.JWTSecret)
	jobSvc := service.NewJobService(store.Bookings, bookingSvc, cfg.PendingBookingTTL)

	ctx := context.Background()
	if err := allocationSvc.EnsureGarage(ctx, cfg.Blocks, cfg.SlotsPerBlock, cfg.PricePerHour); err != nil {
		log.Fatalf("Failed to provision garage: %v", err)
	}
	if created, err := liftSvc.InitializeLifts(ctx, cfg.Blocks, cfg.LiftsPerBlock); err != nil {
		log.Fatalf("Failed to provision lifts: %v", err)
	} else if created > 0 {
		log.Printf("Provisioned %d lifts", created)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.ExpiryCronSpec, jobSvc.ExpireStalePendingBookings); err != nil {
		log.Fatalf("Failed to schedule expiry job: %v", err)
	}
	c.Start()
	defer c.Stop()

	authHandler := api.NewAuthHandler(authSvc)
	lotHandler := api.NewLotHandler(allocationSvc, bookingSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	liftHandler := api.NewLiftHandler(liftSvc)
	mw := auth.NewMiddleware(cfg.JWTSecret)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/lots", lotHandler.ListLots).Methods("GET")
	r.HandleFunc("/api/lots/{id}/spots", lotHandler.ListSpots).Methods("GET")
	r.HandleFunc("/api/stats", lotHandler.Stats).Methods("GET")

	// Authenticated user endpoints
	user := r.PathPrefix("/api").Subrouter()
	user.Use(mw.RequireUser)
	user.Handle("/bookings", http.HandlerFunc(bookingHandler.Create)).Methods("POST")
	user.Handle("/bookings/user", http.HandlerFunc(bookingHandler.List)).Methods("GET")
	user.Handle("/bookings/{code}", http.HandlerFunc(bookingHandler.Get)).Methods("GET")
	user.Handle("/bookings/{code}/pay", http.HandlerFunc(bookingHandler.Pay)).Methods("PUT")
	user.Handle("/bookings/{code}/park", http.HandlerFunc(bookingHandler.Park)).Methods("PUT")
	user.Handle("/bookings/{code}/complete", http.HandlerFunc(bookingHandler.Complete)).Methods("POST")
	user.Handle("/bookings/{code}", http.HandlerFunc(bookingHandler.Cancel)).Methods("DELETE")
	user.Handle("/lifts/assign", http.HandlerFunc(liftHandler.Assign)).Methods("POST")
	user.Handle("/lifts/release", http.HandlerFunc(liftHandler.Release)).Methods("POST")
	user.Handle("/lifts", http.HandlerFunc(liftHandler.List)).Methods("GET")
	user.Handle("/lifts/block/{blockID}", http.HandlerFunc(liftHandler.ListByBlock)).Methods("GET")
	user.Handle("/lifts/{code}", http.HandlerFunc(liftHandler.Get)).Methods("GET")
	user.Handle("/lifts/{code}/status", http.HandlerFunc(liftHandler.UpdateStatus)).Methods("PUT")
	user.Handle("/lifts/{code}/sensor", http.HandlerFunc(liftHandler.UpdateSensor)).Methods("PUT")

	// Admin endpoints
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(mw.RequireAdmin)
	admin.Handle("/lots", http.HandlerFunc(lotHandler.CreateLot)).Methods("POST")
	admin.Handle("/lots/{id}", http.HandlerFunc(lotHandler.UpdateLot)).Methods("PUT")
	admin.Handle("/lifts/initialize", http.HandlerFunc(liftHandler.Initialize)).Methods("POST")

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(log.Writer(), cors(r))))
}
