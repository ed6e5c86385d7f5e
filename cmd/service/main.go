package main

import (
	"strconv"

	"gitlab.com/dirk.krummacker/giftlist-service/internal/config"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/engine"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/service"
	"gitlab.com/dirk.krummacker/giftlist-service/internal/store"
)

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
// > STORE=memory go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := cfg.Logger()

	var s store.Store
	if cfg.Store == "memory" {
		logger.Warn("using the in-memory store, nothing will be persisted")
		s = store.NewMemory()
	} else {
		sqlDB, err := store.CreateDatabase(store.DSN(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName))
		if err != nil {
			logger.WithError(err).Fatal("could not open the database")
		}
		defer sqlDB.Close()
		s = store.NewMySQL(sqlDB)
	}

	if !cfg.GinLoggingEnabled() {
		logger.Info("Turning off HTTP request logging.")
	}
	router := service.SetupHttpRouter(engine.New(s, engine.WithLogger(logger)), service.Options{
		Logging:        cfg.GinLoggingEnabled(),
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Logger:         logger,
	})
	logger.WithField("port", cfg.Port).Info("giftlist service starting")
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
