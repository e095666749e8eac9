package handler

import (
	"net/http"
	"shareit/config"
	"shareit/di"
	"shareit/shared/logger"
	"sync"
)

var (
	app  *di.App
	once sync.Once
)

// Handler serves the application as a single serverless function. The dependency graph is
// built on the first invocation and reused by warm instances.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	app.HTTP.ServeHTTP(w, r)
}
