package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"sipin/cafesite/archive"
	"sipin/cafesite/config"
	"sipin/cafesite/contact"
	"sipin/cafesite/gateway"
	"sipin/cafesite/handlers"
	"sipin/cafesite/middleware"
	"sipin/cafesite/middleware/logkafka"
	"sipin/cafesite/notify"
	"sipin/cafesite/sanity"
	"sipin/cafesite/telem"
	"sipin/cafesite/turnstile"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	// Content store client
	store := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		Token:      cfg.SanityToken,
		UseCDN:     cfg.SanityUseCDN,
		Timeout:    cfg.SanityTimeout,
	})

	gw := gateway.New(store, logger)
	verifier := turnstile.NewVerifier(cfg.TurnstileSecretKey)

	// Notification: always log; also publish to Kafka when brokers are set.
	notifiers := notify.Multi{notify.NewLogNotifier(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		logkafka.InitKafkaWriter(cfg.KafkaBrokers, cfg.KafkaLogTopic)
		defer logkafka.CloseKafkaWriter()

		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaContactTopic)
		defer kafkaNotifier.Close()
		notifiers = append(notifiers, kafkaNotifier)
	}

	// Dead-letter archive for submissions the content store refuses. The
	// service runs without it when Mongo is absent.
	var archiver contact.Archiver
	if client, err := archive.InitMongoClient(cfg.MongoURI); err != nil {
		logger.Warn("mongo unavailable, contact dead-letter archive disabled", "error", err)
	} else {
		defer client.Disconnect(context.TODO())
		archiver = archive.NewStore(client, logger)
	}

	pipeline := contact.NewPipeline(verifier, store, archiver, notifiers, logger)

	api := &handlers.API{
		Gateway:  gw,
		Pipeline: pipeline,
		Images:   store,
		Log:      logger,
	}

	handlers.Init()

	shutdownMetrics, err := telem.InitMetrics("cafesite", cfg.MetricsAddr)
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer shutdownMetrics(context.TODO())

	shutdownTracing, err := telem.InitTracing("cafesite", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer shutdownTracing(context.TODO())

	mainRouter := mux.NewRouter()
	mainRouter.Use(logkafka.LoggingMiddleware)

	// Contact route requires a JSON body
	contactRouter := mainRouter.PathPrefix("/api").Subrouter()
	contactRouter.Use(middleware.ValidateRequestBody)
	contactRouter.HandleFunc("/contact", api.ContactHandler).Methods("POST")

	// Read-only content routes
	readRouter := mainRouter.PathPrefix("/api").Subrouter()
	readRouter.HandleFunc("/home", api.HomeHandler).Methods("GET")
	readRouter.HandleFunc("/cafe-info", api.CafeInfoHandler).Methods("GET")
	readRouter.HandleFunc("/menu/categories", api.MenuCategoriesHandler).Methods("GET")
	readRouter.HandleFunc("/menu/items", api.MenuItemsHandler).Methods("GET")
	readRouter.HandleFunc("/gallery", api.GalleryHandler).Methods("GET")
	readRouter.HandleFunc("/offers", api.OffersHandler).Methods("GET")
	readRouter.HandleFunc("/testimonials", api.TestimonialsHandler).Methods("GET")
	readRouter.HandleFunc("/blog", api.BlogHandler).Methods("GET")
	readRouter.HandleFunc("/blog/{slug}", api.BlogPostHandler).Methods("GET")
	readRouter.HandleFunc("/image-url", api.ImageURLHandler).Methods("GET")

	srv := &http.Server{
		Handler:      mainRouter,
		Addr:         cfg.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	logger.Info("cafe site backend listening", "addr", cfg.Addr, "env", cfg.Env)
	log.Fatal(srv.ListenAndServe())
}
