package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/rhetoric-frontier/internal"
)

const historyLimit = 20

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/rooms/{code}/history", s.RoomHistoryHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/ws", s.ws.HandleWebSocket)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// If it's a websocket upgrade, skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type healthData struct {
	Uptime   string            `json:"uptime"`
	Rooms    int               `json:"rooms"`
	Database map[string]string `json:"database,omitempty"`
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	data := healthData{
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Rooms:  s.registry.Count(),
	}
	status := http.StatusOK
	if s.db != nil {
		data.Database = s.db.Health(r.Context())
		if data.Database["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
	}
	writeResponse(w, startTime, status, data)
}

func (s *Server) RoomHistoryHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	code := strings.ToUpper(mux.Vars(r)["code"])

	if s.db == nil {
		writeResponse(w, startTime, http.StatusNotFound, "Round archive is disabled")
		return
	}
	recs, err := s.db.RecentRounds(r.Context(), code, historyLimit)
	if err != nil {
		log.Error().Err(err).Str("room", code).Msg("[RoomHistoryHandler] query failed")
		writeResponse(w, startTime, http.StatusInternalServerError, "Could not load history")
		return
	}
	if recs == nil {
		recs = []internal.RoundRecord{}
	}
	writeResponse(w, startTime, http.StatusOK, recs)
}

func writeResponse(w http.ResponseWriter, startTime int64, status int, data any) {
	endTime := time.Now().UnixMilli()
	resp := internal.Response{
		StatusCode:    status,
		RespStartTime: startTime,
		RespEndTime:   endTime,
		NetRespTime:   endTime - startTime,
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("[writeResponse] error encoding response")
	}
}
