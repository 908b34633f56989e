package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tcp_snm/pulse/internal/api"
	"github.com/tcp_snm/pulse/internal/database"
	"github.com/tcp_snm/pulse/internal/email"
	"github.com/tcp_snm/pulse/internal/service"
	"github.com/tcp_snm/pulse/internal/service/auth_service"
	"github.com/tcp_snm/pulse/internal/service/codeforces_service"
	"github.com/tcp_snm/pulse/internal/service/scheduler_service"
	"github.com/tcp_snm/pulse/internal/service/stats_service"
	"github.com/tcp_snm/pulse/internal/service/student_service"
	"github.com/tcp_snm/pulse/internal/service/sync_service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const resultCacheSize = 512

var (
	apiConfig *api.Api
)

func initDatabase() (database.Store, *pgxpool.Pool) {
	// get the database url
	dbURL := mustEnv("DB_URL")

	if envBool("MIGRATE", true) {
		if err := database.MigrateUp(dbURL); err != nil {
			panic(err)
		}
	}

	// create a conneciton to the database
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		panic(err)
	}

	return database.NewStore(pool), pool
}

func initResultCache() codeforces_service.ResultCache {
	ttl := envDuration("CF_CACHE_TTL", 5*time.Minute)
	if ttl <= 0 {
		log.Info("codeforces result cache disabled")
		return nil
	}

	redisUrl := os.Getenv("REDIS_URL")
	if redisUrl == "" {
		log.Info("using in-process codeforces result cache")
		return codeforces_service.NewLRUCache(resultCacheSize, ttl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cache, err := codeforces_service.NewRedisCache(ctx, redisUrl, ttl)
	if err != nil {
		log.Warnf("falling back to in-process result cache, %v", err)
		return codeforces_service.NewLRUCache(resultCacheSize, ttl)
	}
	log.Info("using redis codeforces result cache")
	return cache
}

func initCodeforcesService() *codeforces_service.CodeforcesService {
	log.Info("initializing codeforces service")
	cf := &codeforces_service.CodeforcesService{
		BaseUrl:             envString("CF_API_URL", codeforces_service.DefaultBaseUrl),
		RequestTimeout:      envDuration("CF_REQUEST_TIMEOUT", codeforces_service.DefaultRequestTimeout),
		MinRequestInterval:  envDuration("CF_MIN_REQUEST_INTERVAL", codeforces_service.DefaultMinRequestInterval),
		MaxStandingsLookups: envInt("CF_MAX_STANDINGS_LOOKUPS", codeforces_service.DefaultMaxStandingsLookups),
		ResultCache:         initResultCache(),
	}
	cf.Start()
	return cf
}

func initAuthService() *auth_service.AuthService {
	log.Info("initializing auth service")
	as := &auth_service.AuthService{
		AdminUserName:     mustEnv("ADMIN_USER_NAME"),
		AdminPasswordHash: mustEnv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         mustEnv(service.KeyJWTSecret),
	}
	as.Start()
	return as
}

func initLocation() *time.Location {
	name := os.Getenv("TIMEZONE")
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("invalid TIMEZONE: " + name)
	}
	return loc
}

func initApi(
	db database.Store,
	scheduler *scheduler_service.Scheduler,
	cf *codeforces_service.CodeforcesService,
) (*api.Api, *sync_service.SyncService) {
	log.Info("initializing api config")
	as := initAuthService()

	ss := &student_service.StudentService{
		DB:      db,
		Fetcher: cf,
	}
	log.Info("student service created")

	stats := &stats_service.StatsService{
		DB:       db,
		Location: initLocation(),
	}
	stats.Start()
	log.Info("stats service created")

	var reminder sync_service.Reminder
	if os.Getenv(email.KeyEmailSender) != "" {
		es := &email.EmailService{}
		es.Start()
		reminder = es
	} else {
		log.Warn("sender email not configured, inactivity reminders disabled")
	}

	syncs := &sync_service.SyncService{
		Students:       ss,
		Scheduler:      scheduler,
		Reminder:       reminder,
		InactivityDays: envInt("INACTIVITY_DAYS", sync_service.DefaultInactivityDays),
	}
	syncs.Start()
	log.Info("sync service created")

	a := api.Api{
		AuthServiceConfig:    as,
		StudentServiceConfig: ss,
		StatsServiceConfig:   stats,
		SyncServiceConfig:    syncs,
	}
	return &a, syncs
}

// setCors allows credentials only for the origins listed in CORS_ALLOWED_ORIGINS.
func setCors(router *chi.Mux) {
	origins := []string{"https://*", "http://*"}
	allowCredentials := false
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		allowCredentials = true
	}

	router.Use(
		cors.Handler(
			cors.Options{
				AllowedOrigins:   origins,
				AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: allowCredentials,
				ExposedHeaders:   []string{"Link"},
				MaxAge:           300,
			},
		),
	)
	log.Info("cors options has been set")
}

func main() {
	godotenv.Load()
	initLogger()
	service.InitializeServices()

	db, pool := initDatabase()
	defer pool.Close()

	scheduler := &scheduler_service.Scheduler{
		Workers: envInt("SYNC_WORKERS", scheduler_service.DefaultWorkers),
	}
	scheduler.Start()

	cf := initCodeforcesService()
	defer cf.Stop()

	var syncs *sync_service.SyncService
	apiConfig, syncs = initApi(db, scheduler, cf)
	email.StartEmailWorkers(1)
	syncs.StartPeriodicSync(envDuration("SYNC_INTERVAL", sync_service.DefaultInterval))

	// initialize a new router
	router := chi.NewRouter()
	setCors(router)

	// mount v1 router
	v1router := NewV1Router()
	router.Mount("/v1", v1router)
	log.Info("v1 router has been mounted")

	// find port for the server to start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Warnf("port not found in environment. using default port %s", port)
	}

	// find the address to start the server
	apiAddress := os.Getenv("API_URL") + ":" + port

	// create a server object to listen to all requests
	srv := http.Server{
		Handler:           router,
		Addr:              apiAddress,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("starting server on %v", apiAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server cannot be started. Error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	syncs.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server shutdown failed, %v", err)
	}
	scheduler.Stop()
}
