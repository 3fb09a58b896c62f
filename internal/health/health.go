// Package health serves liveness and supervisor status over HTTP.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Mohammad-Alipour/ytgate/internal/supervisor"
)

// StatsSource reports the supervisor state.
type StatsSource interface {
	Stats() supervisor.Stats
}

type Handler struct {
	source StatsSource
}

// Response is the /health body: the supervisor stats plus an overall status.
type Response struct {
	Status string `json:"status"`
	supervisor.Stats
}

func NewRouter(source StatsSource) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	h := &Handler{source: source}
	engine.GET("/health", h.Health)
	engine.GET("/live", h.Liveness)
	return engine
}

// Health reports 200 while the bot loop is running and 503 while it is
// waiting to be restarted.
func (h *Handler) Health(c *gin.Context) {
	stats := h.source.Stats()
	response := Response{Status: "healthy", Stats: stats}

	if !stats.Running {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Serve runs handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting health server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
