// Package api provides the read-only HTTP API for observing the simulation.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/talgya/starmarket/internal/engine"
	"github.com/talgya/starmarket/internal/history"
	"github.com/talgya/starmarket/internal/report"
)

// Source is the live simulation as seen by the API.
type Source interface {
	Snapshot() *report.Report
	StatsSnapshot() engine.SimStats
}

// History is the cycle log as seen by the API.
type History interface {
	SettlementHistory(ctx context.Context, settlement string, limit int) ([]history.SettlementRow, error)
	PriceHistory(ctx context.Context, settlement, good string, limit int) ([]history.GoodRow, error)
	RecentEvents(ctx context.Context, limit int) ([]report.Event, error)
}

// Server serves the simulation state over HTTP.
type Server struct {
	Sim         Source
	DB          History // Optional
	Port        int
	CORSOrigins []string

	srv *http.Server
}

// Handler builds the router wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(Logger())
	router.Use(ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	heavy := RateLimit(NewRateLimiter(60, time.Minute))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", s.handleStatus)
		v1.GET("/bodies", s.handleBodies)
		v1.GET("/settlements", s.handleSettlements)
		v1.GET("/settlement/:name", s.handleSettlementDetail)
		v1.GET("/routes", s.handleRoutes)
		v1.GET("/ships", s.handleShips)
		v1.GET("/events", s.handleEvents)
		v1.GET("/report", heavy, s.handleReport)
		v1.GET("/stats/history", heavy, s.handleStatsHistory)
	}

	router.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	})

	origins := s.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	slog.Info("HTTP API starting", "addr", addr, "history", s.DB != nil)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleStatus(c *gin.Context) {
	r := s.Sim.Snapshot()
	st := s.Sim.StatsSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"tick":          r.Tick,
		"cycle":         r.Cycle,
		"sim_time":      engine.SimTime(r.SimSeconds),
		"bodies":        len(r.Bodies),
		"settlements":   len(r.Settlements),
		"routes":        len(r.Routes),
		"ships":         len(r.Ships),
		"population":    st.TotalPopulation,
		"money":         st.TotalMoney,
		"famines":       st.Famines,
		"colonies":      st.Colonies,
		"deliveries":    st.Deliveries,
		"avg_happiness": st.AvgHappiness,
	})
}

func (s *Server) handleBodies(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(s.Sim.Snapshot().Bodies))
}

func (s *Server) handleSettlements(c *gin.Context) {
	type settlementSummary struct {
		Name       string  `json:"name"`
		Class      string  `json:"class"`
		Population int     `json:"population"`
		Money      float64 `json:"money"`
		Happiness  float64 `json:"happiness"`
		Famine     bool    `json:"famine"`
		Producers  int     `json:"producers"`
	}
	var out []settlementSummary
	for _, st := range s.Sim.Snapshot().Settlements {
		out = append(out, settlementSummary{
			Name:       st.Name,
			Class:      st.Class,
			Population: st.Population,
			Money:      st.PopulationMoney,
			Happiness:  st.Happiness,
			Famine:     st.Famine,
			Producers:  len(st.Producers),
		})
	}
	c.JSON(http.StatusOK, nonNil(out))
}

func (s *Server) handleSettlementDetail(c *gin.Context) {
	name := c.Param("name")
	st, ok := s.Sim.Snapshot().Settlement(name)
	if !ok {
		abort(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("no settlement %q", name))
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(s.Sim.Snapshot().Routes))
}

func (s *Server) handleShips(c *gin.Context) {
	c.JSON(http.StatusOK, nonNil(s.Sim.Snapshot().Ships))
}

func (s *Server) handleEvents(c *gin.Context) {
	limit := queryLimit(c, 50)
	if c.Query("source") == "history" && s.DB != nil {
		events, err := s.DB.RecentEvents(c.Request.Context(), limit)
		if err != nil {
			slog.Error("event history query failed", "error", err)
			abort(c, http.StatusInternalServerError, "HISTORY_ERROR", "history query failed")
			return
		}
		c.JSON(http.StatusOK, nonNil(events))
		return
	}
	events := s.Sim.Snapshot().Events
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	c.JSON(http.StatusOK, nonNil(events))
}

func (s *Server) handleReport(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.Sim.Snapshot().WriteText(&buf); err != nil {
		abort(c, http.StatusInternalServerError, "REPORT_ERROR", err.Error())
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (s *Server) handleStatsHistory(c *gin.Context) {
	if s.DB == nil {
		abort(c, http.StatusServiceUnavailable, "NO_HISTORY", "history log not available")
		return
	}
	body := c.Query("body")
	if body == "" {
		abort(c, http.StatusBadRequest, "MISSING_PARAM", "body query parameter is required")
		return
	}
	limit := queryLimit(c, 30)
	ctx := c.Request.Context()

	if good := c.Query("good"); good != "" {
		rows, err := s.DB.PriceHistory(ctx, body, good, limit)
		if err != nil {
			slog.Error("price history query failed", "error", err)
			abort(c, http.StatusInternalServerError, "HISTORY_ERROR", "history query failed")
			return
		}
		c.JSON(http.StatusOK, nonNil(rows))
		return
	}

	rows, err := s.DB.SettlementHistory(ctx, body, limit)
	if err != nil {
		slog.Error("settlement history query failed", "error", err)
		abort(c, http.StatusInternalServerError, "HISTORY_ERROR", "history query failed")
		return
	}
	c.JSON(http.StatusOK, nonNil(rows))
}

func queryLimit(c *gin.Context, def int) int {
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 1000 {
		return v
	}
	return def
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
