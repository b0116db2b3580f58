package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds shared dependencies (db pool, engine, limiters) for all route handlers.
type Handler struct {
	db           *pgxpool.Pool
	engine       nutrition.Engine
	loginLimiter *rateLimiter
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// isUniqueViolation reports whether err is a Postgres unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// requireDB aborts with 503 when the server was started without a database.
// Calculation routes work without one; history, preferences and auth do not.
func (h *Handler) requireDB() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.db == nil {
			apiError(c, http.StatusServiceUnavailable, "storage not configured")
			c.Abort()
			return
		}
		c.Next()
	}
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// hosted Postgres closes idle connections after a few minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from a server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.Use(metricsMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/options", h.getOptions)
	router.POST("/api/calculate", h.calculate)
	router.POST("/api/register", h.requireDB(), h.register)
	router.POST("/api/login", h.loginLimiter.middleware(), h.requireDB(), h.login)

	// Authenticated routes
	api := router.Group("/api", h.requireDB(), h.authMiddleware())
	api.POST("/calculations", h.createCalculation)
	api.GET("/calculations", h.listCalculations)
	api.GET("/calculations/:id", h.getCalculation)
	api.DELETE("/calculations/:id", h.deleteCalculation)
	api.GET("/preferences", h.getPreferences)
	api.PATCH("/preferences", h.patchPreferences)
}
