package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"findash/internal/analytics"
	"findash/internal/cache"
	"findash/internal/log"
	"findash/internal/middleware/ratelimit"
	"findash/internal/middleware/security"
	"findash/internal/middleware/trace"
)

// Options configures the API server.
type Options struct {
	Engine *analytics.Engine
	Logger *log.Logger
	// Source describes where the tables were loaded from.
	Source string

	RateLimitRPM    int
	CORSAllowOrigin string
	TrustedProxies  []string

	// CacheTTL enables the response cache when positive.
	CacheTTL  time.Duration
	CacheSize int
}

type Server struct {
	http.Server
	engine *analytics.Engine
	logger *log.Logger
	source string

	rateLimiter     *ratelimit.Limiter
	clientIP        *security.ClientIPResolver
	traceMiddleware *trace.Middleware
	responses       *cache.LRUCache[cachedResponse]
	cacheManager    *cache.Manager
	startedAt       time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, opts Options) (*Server, error) {
	if opts.Engine == nil {
		opts.Engine = analytics.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}

	resolver, err := security.NewClientIPResolver(opts.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	s := &Server{
		engine:      opts.Engine,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		source:      opts.Source,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM}),
		clientIP:    resolver,
		responses:   newResponseCache(opts.CacheSize, opts.CacheTTL),
		startedAt:   time.Now(),
	}
	s.cacheManager = cache.NewManager(opts.Logger)
	if s.responses != nil {
		s.cacheManager.Register(s.responses)
		s.cacheManager.StartCleanup(opts.CacheTTL)
	}
	s.traceMiddleware = trace.NewMiddleware(opts.Logger, resolver.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.cacheMiddleware(handler)
	handler = s.rateLimiter.Middleware(resolver.ExtractClientIP, s.handleRateLimited)(handler)
	handler = security.CORS(security.CORSConfigFromOrigins(opts.CORSAllowOrigin))(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleStatus)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /months", s.handleMonths)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /expenses_donut", s.handleExpensesDonut)
	mux.HandleFunc("GET /top_expenses", s.handleTopExpenses)
	mux.HandleFunc("GET /budget_progress", s.handleBudgetProgress)
	mux.HandleFunc("GET /transactions", s.handleTransactions)

	mux.HandleFunc("GET /net_worth_series", s.handleNetWorthSeries)
	mux.HandleFunc("GET /net_worth_changes", s.handleNetWorthChanges)
	mux.HandleFunc("GET /investments_history", s.handleInvestmentsHistory)
	mux.HandleFunc("GET /investments_alloc", s.handleInvestmentsAlloc)

	mux.HandleFunc("GET /goals", s.handleGoals)
	mux.HandleFunc("GET /goals/simulate/contribution", s.handleSimulateContribution)
	mux.HandleFunc("GET /goals/simulate/date", s.handleSimulateDate)

	mux.HandleFunc("/", s.handleFallback)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
