package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vpctl/pkg/vpmobil"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ClientFactory creates a client for one plan date
type ClientFactory func(date time.Time) (*vpmobil.Client, error)

// Server exposes the plans of one school account as a read-only JSON API
type Server struct {
	newClient ClientFactory
	clients   *cache.Cache
	logger    *zap.Logger
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// New creates a server. Clients are kept for ttl so that repeated requests
// for the same date reuse one fetched snapshot.
func New(factory ClientFactory, ttl time.Duration, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		newClient: factory,
		clients:   cache.New(ttl, 2*ttl),
		logger:    logger,
	}
}

// Router builds the gin engine with all routes
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"time":   time.Now(),
			})
		})

		api.GET("/:date/info", s.getInfo)
		api.GET("/:date/classes", s.getClasses)
		api.GET("/:date/classes/:class", s.getClassTimetable)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// client returns the cached client for the :date parameter (YYYY-MM-DD)
// together with its cache key
func (s *Server) client(c *gin.Context) (*vpmobil.Client, string, bool) {
	raw := c.Param("date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid date, expected YYYY-MM-DD",
			Message: err.Error(),
		})
		return nil, "", false
	}

	key := date.Format("20060102")
	if cached, found := s.clients.Get(key); found {
		return cached.(*vpmobil.Client), key, true
	}

	client, err := s.newClient(date)
	if err != nil {
		s.fail(c, "", err)
		return nil, "", false
	}

	// A concurrent request may have stored a client for this date in the meantime
	if err := s.clients.Add(key, client, cache.DefaultExpiration); err != nil {
		if cached, found := s.clients.Get(key); found {
			return cached.(*vpmobil.Client), key, true
		}
		s.clients.Set(key, client, cache.DefaultExpiration)
	}
	return client, key, true
}

// pipelineContext is the context a client's fetch runs under. Its result is
// shared by every request for the date and outlives the request that triggered it.
func pipelineContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (s *Server) getInfo(c *gin.Context) {
	client, key, ok := s.client(c)
	if !ok {
		return
	}

	snap, err := client.Snapshot(pipelineContext(c))
	if err != nil {
		s.fail(c, key, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       snap.Date().Format("2006-01-02"),
		"header":     snap.Header(),
		"off_days":   snap.OffDays(),
		"extra_info": snap.ExtraInfo(),
	})
}

func (s *Server) getClasses(c *gin.Context) {
	client, key, ok := s.client(c)
	if !ok {
		return
	}

	classes, err := client.AvailableClasses(pipelineContext(c))
	if err != nil {
		s.fail(c, key, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": classes,
	})
}

func (s *Server) getClassTimetable(c *gin.Context) {
	client, key, ok := s.client(c)
	if !ok {
		return
	}

	tt, err := client.ClassTimetable(pipelineContext(c), c.Param("class"))
	if err != nil {
		s.fail(c, key, err)
		return
	}

	lessons := tt.Timetable()
	if period := c.Query("period"); period != "" {
		lessons = tt.LessonsByPeriod(period)
	} else if subject := c.Query("subject"); subject != "" {
		lessons = tt.LessonsBySubject(subject)
	}

	c.JSON(http.StatusOK, gin.H{
		"class": tt.ClassName(),
		"data":  lessons,
	})
}

// fail maps error kinds onto HTTP statuses. Clients whose fetch failed for a
// transient reason are dropped so the next request for the date tries again.
func (s *Server) fail(c *gin.Context, key string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, vpmobil.ErrInvalidClassName), errors.Is(err, vpmobil.ErrDataNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vpmobil.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, vpmobil.ErrMalformedFeed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, vpmobil.ErrTransport):
		status = http.StatusBadGateway
	case errors.Is(err, vpmobil.ErrInvalidArgument):
		status = http.StatusBadRequest
	}

	if key != "" && (errors.Is(err, vpmobil.ErrTransport) || errors.Is(err, vpmobil.ErrMalformedFeed)) {
		s.clients.Delete(key)
	}

	s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

// Run listens on addr until the process exits
func (s *Server) Run(addr string) error {
	if err := s.Router().Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
