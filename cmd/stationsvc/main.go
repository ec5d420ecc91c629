package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	config "github.com/zackdesign/checkin-app/configs"
	pgdb "github.com/zackdesign/checkin-app/internal/checkinsvc/db"
	"github.com/zackdesign/checkin-app/internal/checkinsvc/store"
	"github.com/zackdesign/checkin-app/internal/db"
	nats "github.com/zackdesign/checkin-app/internal/nats"
	"github.com/zackdesign/checkin-app/internal/stationsvc/broker"
	"github.com/zackdesign/checkin-app/internal/stationsvc/feed"
	"github.com/zackdesign/checkin-app/internal/stationsvc/routes"
	"github.com/zackdesign/checkin-app/internal/stationsvc/session"
	"github.com/zackdesign/checkin-app/internal/stationsvc/ws"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "station"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection, for the feed's joined refetch
	dbpool, err := pgdb.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgdb.ClosePool()
	log.Printf("pg connection established successfully")

	checkinStore := store.NewCheckInStore(dbpool)

	// mongo holds the station session registry
	mongoDB, cancelMongo, err := db.ConnectToDB()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancelMongo()
	db.CreateTTLIndexForCollection(mongoDB, session.CollectionName)
	sessions := session.NewRegistry(mongoDB)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// Station runtime. No host NFC reader is attached on this deployment;
	// browser stations forward reads over the socket and everything else
	// degrades to QR.
	s := ws.NewWs(checkinStore, &feed.NatsSubscriber{Conn: n.Conn}, sessions, nil)

	b := broker.NewBroker(n.Conn, s.HandleFeedback)
	s.Broker = b

	sub, err := b.SubscribeFeedback()
	if err != nil {
		log.Errorf("Error: unable to subscribe to feedback %v", err)
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
	r.Use(c.Handler)

	routes.SetRoutes(r, s)

	server := &http.Server{
		Addr:        ":" + os.Getenv("STATION_SERVICE_PORT"),
		Handler:     r,
		IdleTimeout: 60 * time.Second,
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
