package spellfix

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Alfex4936/spellfix/internal/metrics"
	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

// DefaultCheckTimeout bounds a /v1/check call when the request names none.
const DefaultCheckTimeout = 3 * time.Minute

// Server exposes the checker, the pure span operations and editing sessions
// over HTTP.
type Server struct {
	checker *Checker
	store   *SessionStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	engine  *gin.Engine
}

// NewServer builds the router. logger and m may be nil.
func NewServer(checker *Checker, store *SessionStore, logger *slog.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{checker: checker, store: store, logger: logger, metrics: m}

	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/", s.docs)
	r.GET("/health", s.health)
	r.GET("/openapi.json", s.openAPI)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := r.Group("/v1")
	v1.POST("/check", s.check)
	v1.POST("/render", s.render)
	v1.POST("/apply", s.apply)
	v1.POST("/apply-all", s.applyAll)

	sess := v1.Group("/sessions")
	sess.POST("", s.createSession)
	sess.GET("/:id", s.getSession)
	sess.PUT("/:id/text", s.setSessionText)
	sess.POST("/:id/check", s.checkSession)
	sess.POST("/:id/apply", s.applySession)
	sess.POST("/:id/apply-all", s.applyAllSession)
	sess.DELETE("/:id", s.deleteSession)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// --- request / response bodies ---

// CheckRequest is the body of POST /v1/check.
type CheckRequest struct {
	Text    string   `json:"text" binding:"required"`
	Words   []string `json:"words,omitempty"` // protected words
	Dict    *Dict    `json:"dict,omitempty"`
	Timeout int      `json:"timeout,omitempty" binding:"gte=0"` // seconds
}

type CheckResponse struct {
	*model.Result
	Segments []model.Segment `json:"segments"`
}

type RenderRequest struct {
	Text        string             `json:"text"`
	Corrections []model.Correction `json:"corrections"`
}

type ApplyRequest struct {
	Text       string             `json:"text"`
	Correction model.Correction   `json:"correction"`
	Pending    []model.Correction `json:"pending"`
}

type ApplyAllRequest struct {
	CorrectedText string             `json:"correctedText"`
	Pending       []model.Correction `json:"pending"`
}

type ApplyResponse struct {
	ApplyResult
	Segments []model.Segment `json:"segments"`
}

type SessionRequest struct {
	Text  string   `json:"text"`
	Words []string `json:"words,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// --- handlers ---

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "spellfix"})
}

func (s *Server) check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	timeout := DefaultCheckTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	res, err := s.checker.Check(ctx, req.Text, NewDict(req.Words...).Merge(req.Dict))
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	s.writeJSON(c, http.StatusOK, CheckResponse{Result: res, Segments: Render(res.Original, res.Corrections)})
}

func (s *Server) render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(c, http.StatusOK, gin.H{"segments": Render(req.Text, req.Corrections)})
}

func (s *Server) apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	res := Apply(req.Text, req.Correction, req.Pending)
	s.writeJSON(c, http.StatusOK, ApplyResponse{ApplyResult: res, Segments: Render(res.Text, res.Remaining)})
}

func (s *Server) applyAll(c *gin.Context) {
	var req ApplyAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	res := ApplyAll(req.CorrectedText, req.Pending)
	s.writeJSON(c, http.StatusOK, ApplyResponse{ApplyResult: res, Segments: Render(res.Text, nil)})
}

func (s *Server) createSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	var dict *Dict
	if len(req.Words) > 0 {
		dict = NewDict(req.Words...)
	}
	sess := s.store.Create(req.Text, dict)
	s.writeJSON(c, http.StatusCreated, sess.View())
}

func (s *Server) getSession(c *gin.Context) {
	if sess, ok := s.session(c); ok {
		s.writeJSON(c, http.StatusOK, sess.View())
	}
}

func (s *Server) setSessionText(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(c, http.StatusOK, sess.SetText(req.Text))
}

func (s *Server) checkSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	view, err := sess.Check(c.Request.Context(), c.Query("auto") == "true")
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	s.writeJSON(c, http.StatusOK, view)
}

func (s *Server) applySession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var span model.Span
	if err := c.ShouldBindJSON(&span); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(c, http.StatusOK, sess.Apply(span))
}

func (s *Server) applyAllSession(c *gin.Context) {
	if sess, ok := s.session(c); ok {
		s.writeJSON(c, http.StatusOK, sess.ApplyAll())
	}
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) session(c *gin.Context) (*Session, bool) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, statusOf(err), err)
		return nil, false
	}
	return sess, true
}

// --- plumbing ---

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStale):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	s.writeJSON(c, status, errorBody{Error: err.Error()})
}

// writeJSON keeps <, > and & readable; model explanations are full of them.
func (s *Server) writeJSON(c *gin.Context, status int, v any) {
	out, err := util.MarshalNoEscape(v, false)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", out)
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveHTTP(c.Request.Method, route, status)
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency", time.Since(start))
	}
}

func (s *Server) openAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(openAPISpec))
}

func (s *Server) docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(redocHTML))
}
