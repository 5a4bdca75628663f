package wire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/cache"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/jobs"
	"venue-booking/internal/notify"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	notifyTimeout = 10 * time.Second
	hubBuffer     = 16
)

// App holds the router and the background pieces main has to start and stop.
type App struct {
	Router     *chi.Mux
	Dispatcher *notify.Dispatcher
	Scheduler  *jobs.Scheduler
	closers    []func() error
}

// Close releases the external clients opened by Wiring.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// Wiring builds services, handlers and routes on top of repo. Redis and Kafka
// are optional: an empty address leaves the pricing cache or event topic off.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	app := &App{}

	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", config.Redis.Addr, err)
		}
		app.closers = append(app.closers, rdb.Close)
		repo.Pricing = cache.NewPricingCache(repo.Pricing, rdb, config.Redis.PricingCacheTTL, logger)
		logger.Info("Pricing cache enabled", zap.String("addr", config.Redis.Addr))
	}

	var events notify.EventPublisher = notify.NopPublisher{}
	if len(config.Kafka.Brokers) > 0 {
		producer, err := notify.NewKafkaProducer(config.Kafka.Brokers)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		publisher := notify.NewKafkaPublisher(producer, config.Kafka.Topic)
		app.closers = append(app.closers, publisher.Close)
		events = publisher
		logger.Info("Event publishing enabled", zap.Strings("brokers", config.Kafka.Brokers))
	}

	var mailer notify.Mailer = notify.NewLogMailer(logger)
	if config.Email.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(config.Email.SendGridAPIKey, config.Email.From, config.Email.FromName)
	}

	hub := notify.NewHub(hubBuffer)
	app.Dispatcher = notify.NewDispatcher(repo.Notification, hub, mailer, events, notifyTimeout, logger)

	service := usecase.NewService(repo, config, app.Dispatcher, hub, logger)
	handler := adaptor.NewHandler(service, logger)
	app.Router = setupRouter(handler, repo, config, logger)

	runner := jobs.NewRunner(repo, app.Dispatcher, time.Duration(config.Booking.ReminderWindowHours)*time.Hour, logger)
	scheduler, err := jobs.NewScheduler(runner, config.Scheduler, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Scheduler = scheduler

	return app, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	// an empty origin list allows any origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.App.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		MaxAge:         600,
	}))

	wireAuth(r, handler.Auth, repo, config, logger)
	wireVenue(r, handler.Venue, repo, config, logger)
	wireBooking(r, handler.Booking, handler.Payment, repo, config, logger)
	wireOwner(r, handler, repo, config, logger)
	wireNotification(r, handler.Notification, repo, config, logger)
	wireAdmin(r, handler.Admin, repo, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// authenticated is the session check every protected route group starts with.
func authenticated(repo *repository.Repository, config *utils.Config, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthSession(repo.Session, config.JWT.Secret, log)
}
