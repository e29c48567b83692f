package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"dockday/internal/agency"
	"dockday/internal/audit"
	"dockday/internal/auth"
	"dockday/internal/kvstore"
	ledgerapp "dockday/internal/ledger/application"
	ledgerkv "dockday/internal/ledger/infrastructure/kv"
	"dockday/internal/observability/metrics"
	ordersapp "dockday/internal/orders/application"
	orderskv "dockday/internal/orders/infrastructure/kv"
	ordersinterfaces "dockday/internal/orders/interfaces"
	statementapp "dockday/internal/statement/application"
	statementkv "dockday/internal/statement/infrastructure/kv"
	statementinterfaces "dockday/internal/statement/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, store, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("store open error: %v", err)
	}
	defer db.Close()

	metrics.Init()
	auditRepo := audit.NewRepository(store)

	directoryCfg, err := agency.LoadConfig(cfg.DirectoryConfigPath)
	if err != nil {
		logger.Fatalf("directory config error: %v", err)
	}
	directory := agency.NewDirectory(directoryCfg.Companies)
	whitelist := agency.NewWhitelist(directoryCfg.Agents)

	orderRepo, err := orderskv.NewOrderRepository(store, orderskv.WithNamespace(cfg.Namespace))
	if err != nil {
		logger.Fatalf("order repository error: %v", err)
	}
	ledgerRepo, err := ledgerkv.NewActualCostRepository(store, ledgerkv.WithNamespace(cfg.Namespace))
	if err != nil {
		logger.Fatalf("ledger repository error: %v", err)
	}
	statementRepo, err := statementkv.NewStatementRepository(store, statementkv.WithNamespace(cfg.Namespace))
	if err != nil {
		logger.Fatalf("statement repository error: %v", err)
	}

	lifecycleService, err := ordersapp.NewLifecycleService(orderRepo, directory, whitelist, ordersapp.SystemClock{})
	if err != nil {
		logger.Fatalf("order service error: %v", err)
	}
	ledgerService, err := ledgerapp.NewLedgerService(ledgerRepo, orderRepo, nil)
	if err != nil {
		logger.Fatalf("ledger service error: %v", err)
	}
	statementService, err := statementapp.NewStatementService(statementRepo, orderRepo, ledgerRepo, nil)
	if err != nil {
		logger.Fatalf("statement service error: %v", err)
	}

	verifyHandler, err := ordersinterfaces.NewVerifyHandler(whitelist, directory)
	if err != nil {
		logger.Fatalf("verify handler error: %v", err)
	}
	estimateHandler, err := ordersinterfaces.NewEstimateHandler(lifecycleService)
	if err != nil {
		logger.Fatalf("estimate handler error: %v", err)
	}
	orderHandler, err := ordersinterfaces.NewOrderHandler(lifecycleService, ledgerService, auditRepo)
	if err != nil {
		logger.Fatalf("order handler error: %v", err)
	}
	statementHandler, err := statementinterfaces.NewStatementHandler(statementService, auditRepo)
	if err != nil {
		logger.Fatalf("statement handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{
		"/healthz",
		"/metrics",
		"/api/v1/agents/verify",
		"/api/v1/quotes/estimate",
	}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/agents/verify", verifyHandler)
	mux.Handle("/api/v1/quotes/estimate", estimateHandler)
	mux.Handle("/api/v1/orders", orderHandler)
	mux.Handle("/api/v1/orders/", orderHandler)
	mux.Handle("/api/v1/statements", statementHandler)
	mux.Handle("/api/v1/statements/", statementHandler)
	mux.Handle("/api/v1/statements/generate", statementHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL         string
	HTTPAddr            string
	Namespace           string
	DirectoryConfigPath string
	JWTSecret           string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:         getenvDefault("DATABASE_URL", getenvDefault("DOCKDAY_DB", "dockday.db")),
		HTTPAddr:            getenvDefault("HTTP_ADDR", ":8080"),
		Namespace:           getenvDefault("DOCKDAY_NAMESPACE", "dockday"),
		DirectoryConfigPath: getenvDefault("DOCKDAY_DIRECTORY_CONFIG", ""),
		JWTSecret:           getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

// openStore selects the persistence backend from the database URL. A
// postgres URL gets the pgx driver, anything else is treated as a sqlite
// file path.
func openStore(cfg config) (*sql.DB, kvstore.Store, error) {
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		store, err := kvstore.NewPostgresStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, store, nil
	}

	db, err := sql.Open("sqlite", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store, err := kvstore.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, store, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
