package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/syclar/internal/account"
	"github.com/2beens/syclar/internal/auth"
	"github.com/2beens/syclar/internal/config"
	"github.com/2beens/syclar/internal/db"
	"github.com/2beens/syclar/internal/geoip"
	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/middleware"
	"github.com/2beens/syclar/internal/store"
	"github.com/2beens/syclar/internal/telemetry/metrics"
	"github.com/2beens/syclar/internal/telemetry/tracing"
	"github.com/2beens/syclar/internal/tracker"
	"github.com/2beens/syclar/internal/verification"
	"github.com/2beens/syclar/pkg"
)

const sessionsCleanupInterval = 8 * time.Hour

// premium endpoints need an active subscription or trial
var premiumPrefixes = []string{"/verify", "/peptalk"}

type entitlementChecker interface {
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	localStore  *store.SQLiteStore
	publisher   tracker.Publisher

	authService    *auth.Service
	sessionChecker auth.Checker
	entitlement    entitlementChecker
	rateLimiter    middleware.RequestRateLimiter

	activity       *tracker.Service
	trackerHandler *tracker.Handler
	accountHandler *account.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	DBPassword              string
	RedisPassword           string
	GeminiAPIKey            string
	IpInfoAPIKey            string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.Migrate(ctx, dbPool); err != nil {
		log.Errorf("failed to migrate db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "syclar", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "syclar-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Minute,
	}

	accounts := account.NewService(account.NewRepo(dbPool))
	entitlement := account.NewEntitlement(accounts, account.DefaultEntitlementTTL, cfg.GrantAllAccess)
	authService := auth.NewAuthService(auth.DefaultTTL, rdb)

	localStore, err := store.OpenSQLiteStore(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	states := store.NewSyncedStore(localStore, store.NewPostgresStore(dbPool), entitlement)

	catalog, err := loadCatalog(cfg.AchievementsCatalogPath)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	engine := ledger.NewEngine(ledger.NewClock(loc))

	var publisher tracker.Publisher = tracker.NoopPublisher{}
	if cfg.NatsURL != "" {
		natsPublisher, err := tracker.NewNatsPublisher(cfg.NatsURL)
		if err != nil {
			log.Errorf("activity events disabled: %s", err)
		} else {
			publisher = natsPublisher
		}
	} else {
		log.Debugln("nats url not set, activity events disabled")
	}

	var verifier verification.Verifier
	pepTalks := verification.NewPepTalks(nil, rdb)
	if params.GeminiAPIKey != "" {
		geminiClient, err := verification.NewGeminiClient(ctx, verification.GeminiParams{
			APIKey:     params.GeminiAPIKey,
			Endpoint:   cfg.GeminiEndpoint,
			Model:      cfg.GeminiModel,
			HTTPClient: tracedHttpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("new gemini client: %w", err)
		}
		verifier = geminiClient
		pepTalks = verification.NewPepTalks(geminiClient, rdb)
	} else {
		log.Warnln("gemini api key not set, screenshot verification disabled")
	}

	geoIp, err := geoip.NewApi("", params.IpInfoAPIKey, tracedHttpClient, rdb)
	if err != nil {
		return nil, fmt.Errorf("new geoip api: %w", err)
	}

	activity := tracker.NewService(engine, states, catalog, publisher, verifier, metricsManager)

	return &Server{
		versionInfo: params.VersionInfo,
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		localStore:  localStore,
		publisher:   publisher,

		authService:    authService,
		sessionChecker: authService,
		entitlement:    entitlement,
		rateLimiter:    redis_rate.NewLimiter(rdb),

		activity:       activity,
		trackerHandler: tracker.NewHandler(activity, geoIp, pepTalks, cfg.DevEndpoints),
		accountHandler: account.NewHandler(accounts, authService, metricsManager),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func loadCatalog(path string) (ledger.Catalog, error) {
	if path == "" {
		return ledger.DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open achievements catalog: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("close achievements catalog file: %s", err)
		}
	}()

	catalog, err := ledger.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load achievements catalog %s: %w", path, err)
	}
	log.Debugf("loaded %d achievements from %s", len(catalog), path)
	return catalog, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("syclar-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")

	s.accountHandler.SetupRoutes(r, s.rateLimiter, s.config.LoginRateLimitAllowedPerMin)
	s.trackerHandler.SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessionChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.SubscriptionGate(s.entitlement, premiumPrefixes))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	msg := "syclar is up"
	if s.versionInfo != "" {
		msg += ", version: " + s.versionInfo
	}
	pkg.WriteTextResponseOK(w, msg)
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.activity.RunFlushLoop(ctx, s.config.StateFlushInterval.Duration)
	go s.cleanSessions(ctx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) cleanSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionsCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.authService.ScanAndClean(ctx)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if err := s.activity.Flush(ctx); err != nil {
		log.Errorf("flush dirty activity states: %s", err)
	}

	s.publisher.Close()
	log.Trace("activity publisher closed ...")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.localStore != nil {
		if err := s.localStore.Close(); err != nil {
			log.Errorf("failed to close local store: %s", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
