package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/shapedtime/cuewords/internal/vocab"
)

func main() {
	sqlitePath := flag.String("sqlite-path", "", "Path to SQLite database file")
	pgURL := flag.String("pg-url", "", "PostgreSQL connection URL")
	flag.Parse()

	if *sqlitePath == "" || *pgURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: migrate-to-pg --sqlite-path /path/to/cuewords.db --pg-url postgres://...\n")
		os.Exit(1)
	}

	if _, err := os.Stat(*sqlitePath); err != nil {
		log.Fatalf("SQLite database not found: %v", err)
	}

	// Open SQLite (runs pending migrations, so old files gain new columns)
	sqliteDB, err := vocab.NewDB(vocab.DriverSQLite, *sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteDB.Close()
	log.Println("Connected to SQLite")

	// Open PostgreSQL; migrations create the schema
	pgDB, err := vocab.NewDB(vocab.DriverPostgres, *pgURL)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL: %v", err)
	}
	defer pgDB.Close()
	log.Println("Connected to PostgreSQL")

	count, err := vocab.Copy(context.Background(), sqliteDB, pgDB)
	if err != nil {
		log.Fatalf("Failed to migrate lookups: %v", err)
	}
	log.Printf("Migrated lookups: %d rows", count)

	log.Println("Migration completed successfully!")
}
