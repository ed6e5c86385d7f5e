package main

import (
	"flag"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/config"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -command=up
func main() {
	commandPtr := flag.String("command", "up", "the migration command: up, down, status or version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := cfg.Logger()

	sqlDB, err := store.CreateDatabase(store.DSN(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName))
	if err != nil {
		logger.WithError(err).Fatal("could not open the database")
	}
	defer sqlDB.Close()

	if err := store.Migrate(sqlDB, *commandPtr, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
}
