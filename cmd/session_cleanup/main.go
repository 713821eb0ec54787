// Command session_cleanup prunes expired SSO sessions from the
// transactional store. Run from cron; the login portal only ever inserts.
package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/config"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/database"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadSessionRuntimeConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dsn := os.Getenv("MAIN_DATABASE_URL")
	if dsn == "" {
		log.Fatal("MAIN_DATABASE_URL is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	cutoff := time.Now().Add(-cfg.Grace)
	args := map[string]interface{}{"cutoff": cutoff}

	if cfg.DryRun {
		var count int64
		err := db.Raw(
			"SELECT COUNT(*) FROM sessions WHERE expires_at < @cutoff", args,
		).Scan(&count).Error
		if err != nil {
			log.Fatalf("count sessions failed: %v", err)
		}
		log.Printf("session cleanup dry run: would remove=%d cutoff=%s", count, cutoff.Format(time.RFC3339))
		return
	}

	res := db.Exec("DELETE FROM sessions WHERE expires_at < @cutoff", args)
	if res.Error != nil {
		log.Fatalf("cleanup sessions failed: %v", res.Error)
	}

	log.Printf("session cleanup completed: removed=%d cutoff=%s", res.RowsAffected, cutoff.Format(time.RFC3339))
}
