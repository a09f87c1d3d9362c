package main

import (
	"embed"
	"log"

	"github.com/gorilla/mux"

	"github.com/sabbirba10/exam-server/internal/config"
	"github.com/sabbirba10/exam-server/internal/handler"
	"github.com/sabbirba10/exam-server/internal/middleware"
	"github.com/sabbirba10/exam-server/internal/server"
	"github.com/sabbirba10/exam-server/internal/template"
)

//go:embed static/views/*.html
var views embed.FS

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	tmpl, err := template.NewTemplate(views)
	if err != nil {
		log.Fatalf("unable to parse templates: %v", err)
	}
	logger := middleware.NewLogger(cfg.LogFormat, nil)

	svr := server.NewServer(
		cfg,
		mux.NewRouter(),
		tmpl,
		logger,
	)

	handler.RegisterRoutes(svr)

	logger.Fatal().Err(svr.Run()).Msg("server stopped")
}
