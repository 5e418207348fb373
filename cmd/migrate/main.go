// Command migrate applies or reverts the embedded schema migrations.
//
//	migrate [-db portal.db] up|down|status
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"member-portal/internal/database"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load()

	defaultPath := os.Getenv("DATABASE_PATH")
	if defaultPath == "" {
		defaultPath = "portal.db"
	}
	path := flag.String("db", defaultPath, "SQLite database file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-db path] up|down|status\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.Open(*path, gormlogger.Silent)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	switch flag.Arg(0) {
	case "up":
		err = database.Migrate(ctx, db)
	case "down":
		err = database.Rollback(ctx, db)
	case "status":
		var current, latest int64
		current, latest, err = database.SchemaVersion(ctx, db)
		if err == nil {
			fmt.Printf("schema version %d of %d\n", current, latest)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}
