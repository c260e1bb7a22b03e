package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"workforce-backend/config"
	"workforce-backend/internal/database"
	"workforce-backend/internal/logging"
)

func main() {
	dir := flag.String("dir", "", "CSV directory to import (attendance.csv, employees.csv, shifts.csv, shift_swaps.csv)")
	demo := flag.Bool("demo", false, "Seed the demo employees and shifts")
	flag.Parse()

	// Load .env manual karena ini script terpisah
	if !config.LoadEnv() {
		log.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	logger, err := logging.New(config.GetEnv("LOG_LEVEL", "info"), config.GetEnvAsBool("LOG_DEVELOPMENT", true), false)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := config.ConnectDB(logger)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}

	if *demo {
		if err := database.SeedDemo(db, logger); err != nil {
			logger.Fatal("demo seeding failed", zap.Error(err))
		}
	}
	if *dir != "" {
		if err := database.SeedFromDir(db, *dir, logger); err != nil {
			logger.Fatal("import failed", zap.Error(err))
		}
	}
	if !*demo && *dir == "" {
		log.Println("Nothing to seed: pass -demo and/or -dir")
	}
}
