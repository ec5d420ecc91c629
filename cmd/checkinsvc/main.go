package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/zackdesign/checkin-app/configs"
	"github.com/zackdesign/checkin-app/internal/checkinsvc/broker"
	"github.com/zackdesign/checkin-app/internal/checkinsvc/db"
	handlers "github.com/zackdesign/checkin-app/internal/checkinsvc/handlers"
	"github.com/zackdesign/checkin-app/internal/checkinsvc/service"
	"github.com/zackdesign/checkin-app/internal/checkinsvc/store"
	nats "github.com/zackdesign/checkin-app/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "checkin"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	notifier := broker.NewNotifier(n.Conn)

	eventStore := store.NewEventStore(dbpool)
	eventService := service.NewEventService(eventStore)

	deviceStore := store.NewDeviceStore(dbpool)
	deviceService := service.NewDeviceService(deviceStore)

	checkinStore := store.NewCheckInStore(dbpool)
	checkinService := service.NewCheckInService(checkinStore, eventStore, deviceService, notifier)

	profileStore := store.NewProfileStore(dbpool)
	profileService := service.NewProfileService(profileStore, checkinStore, deviceStore, notifier)

	// consume station tag reads
	b := broker.NewBroker(n.Conn, checkinService)
	sub, err := b.SubscribeArrivals()
	if err != nil {
		log.Errorf("Error: unable to subscribe to arrivals %v", err)
		os.Exit(0)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(eventService, profileService, checkinService, deviceService)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("CHECKIN_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
