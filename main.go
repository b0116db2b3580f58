package main

import (
	"fmt"
	"log"
	"time"

	"github.com/enricosaito/nutri-macros-mobile-sub000/nutrition"
	"github.com/gin-gonic/gin"
)

func main() {
	// Set properties of the predefined Logger, including
	// the log entry prefix and a flag to disable printing
	// the time, source file, and line number.
	log.SetPrefix("nutri-macros-api: ")
	log.SetFlags(0)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[main] invalid configuration: %v", err)
	}

	h := &Handler{
		engine:       nutrition.Engine{Policy: cfg.RangePolicy},
		loginLimiter: newRateLimiter(cfg.LoginRateLimit, 15*time.Minute),
	}
	if cfg.DBURL != "" {
		h.db = getDBPool(cfg.DBURL)
		defer h.db.Close()
	} else {
		log.Printf("[main] DB_URL not set, history, preferences and auth are disabled")
	}

	fmt.Printf("Starting gin app on %s (range policy %s)...\n", cfg.Addr, cfg.RangePolicy)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
