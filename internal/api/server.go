package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/wmfkit/internal/logger"
	"github.com/samcharles93/wmfkit/internal/version"
	"github.com/samcharles93/wmfkit/internal/wmfio"
	"github.com/samcharles93/wmfkit/pkg/wmf"
)

const mimeWMF = "image/wmf"

type Config struct {
	// MaxBody caps request bodies after decompression. Zero selects
	// wmfio.MaxSize.
	MaxBody int64
	Logger  logger.Logger
	Metrics *Metrics
}

// Server exposes the codec over HTTP. Each request parses its own copy of
// the body; nothing is shared between requests apart from the metrics.
type Server struct {
	maxBody int64
	log     logger.Logger
	metrics *Metrics
}

func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	return &Server{
		maxBody: cfg.MaxBody,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
	}
}

func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) Register(e *echo.Echo) {
	e.Use(requestID())

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", s.handleMetrics)

	e.POST("/v1/inspect", s.handleInspect)
	e.POST("/v1/convert", s.handleConvert)
}

type HealthResponse struct {
	Status  string       `json:"status"`
	Version version.Info `json:"version"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, HealthResponse{Status: "ok", Version: version.Resolve()})
}

func (s *Server) handleMetrics(c *echo.Context) error {
	s.metrics.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

// readFile reads and indexes the request body. raw is the body as sent,
// before any gzip inflation.
func (s *Server) readFile(c *echo.Context) (*wmf.File, []byte, error) {
	data, err := wmfio.ReadAll(c.Request().Body, s.maxBody)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, newInvalidRequest("empty body")
	}
	mf, err := wmf.Parse(data, wmf.WithLogger(s.log.Slog()))
	if err != nil {
		return nil, nil, err
	}
	return mf, data, nil
}

func (s *Server) fail(c *echo.Context, endpoint string, err error) error {
	status, errType := statusFor(err)
	s.metrics.Failure(endpoint, errType)
	s.log.Warn("request rejected",
		"endpoint", endpoint,
		"status", status,
		"request_id", c.Response().Header().Get(headerRequestID),
		"err", err,
	)
	return writeError(c, status, errType, err.Error())
}

func (s *Server) handleInspect(c *echo.Context) error {
	const endpoint = "inspect"
	defer s.metrics.Observe(endpoint, time.Now())

	withRecords := true
	if v := c.QueryParam("records"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s.fail(c, endpoint, newInvalidRequest("records must be a boolean"))
		}
		withRecords = b
	}
	mf, data, err := s.readFile(c)
	if err != nil {
		return s.fail(c, endpoint, err)
	}
	summary := wmfio.Summarize(mf, data, withRecords)
	for typ, n := range summary.Counts {
		s.metrics.RecordDecoded(typ, n)
	}
	s.log.Debug("inspected", "bytes", summary.Bytes, "records", len(mf.Records), "failed", summary.Failed)
	return writeJSON(c, http.StatusOK, summary)
}

func (s *Server) handleConvert(c *echo.Context) error {
	const endpoint = "convert"
	defer s.metrics.Observe(endpoint, time.Now())

	order, err := wmf.ParseByteOrder(c.QueryParam("order"))
	if err != nil {
		return s.fail(c, endpoint, err)
	}
	compress := false
	if v := c.QueryParam("compress"); v != "" {
		if compress, err = strconv.ParseBool(v); err != nil {
			return s.fail(c, endpoint, newInvalidRequest("compress must be a boolean"))
		}
	}
	mf, _, err := s.readFile(c)
	if err != nil {
		return s.fail(c, endpoint, err)
	}

	out := bytes.Clone(mf.Data)
	if order == wmf.BigEndian {
		if err := wmf.SwapFile(out, true); err != nil {
			return s.fail(c, endpoint, err)
		}
	}
	c.Response().Header().Set("X-WMF-Blake3", wmfio.Digest(out))
	contentType := mimeWMF
	if compress {
		if out, err = wmfio.Compress(out); err != nil {
			return s.fail(c, endpoint, err)
		}
		contentType = "application/gzip"
	}
	s.metrics.Conversion(order.String())
	s.log.Debug("converted", "order", order.String(), "from_foreign", mf.Foreign, "bytes", len(out))
	return c.Blob(http.StatusOK, contentType, out)
}
