// Package database opens the two relational stores the service talks to:
// the transactional laboratory store (read-write) and the corporate
// catalog store (read-only).
package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// registers the cgo-free "sqlite" driver used below
	_ "modernc.org/sqlite"
)

// Stores pairs the two pools. Main owns quotations and override tables;
// Read serves the external master data and is never written to.
type Stores struct {
	Main *gorm.DB
	Read *gorm.DB
}

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// ConnectStores opens both pools. Both must come up; a service that can
// write quotations but not resolve the catalog (or vice versa) is not
// usable.
func ConnectStores(mainDSN, readDSN string) (*Stores, error) {
	main, err := Connect(mainDSN)
	if err != nil {
		return nil, fmt.Errorf("connect main store: %w", err)
	}
	read, err := Connect(readDSN)
	if err != nil {
		return nil, fmt.Errorf("connect read store: %w", err)
	}
	return &Stores{Main: main, Read: read}, nil
}
