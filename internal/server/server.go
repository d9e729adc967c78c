package server

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/scythe504/rhetoric-frontier/internal/database"
	"github.com/scythe504/rhetoric-frontier/internal/game"
	"github.com/scythe504/rhetoric-frontier/internal/utils"
)

type Server struct {
	port     int
	started  time.Time
	registry *game.Registry
	ws       *game.Handler
	db       database.Service
}

// New wires the HTTP surface. db may be nil.
func New(registry *game.Registry, db database.Service) *Server {
	return &Server{
		port:     utils.GetEnvInt("PORT", 8080),
		started:  time.Now(),
		registry: registry,
		ws:       game.NewHandler(game.NewRouter(registry)),
		db:       db,
	}
}

func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
