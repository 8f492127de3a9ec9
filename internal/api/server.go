package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	imagepkg "github.com/youruser/duelsim/internal/image"
	"github.com/youruser/duelsim/internal/layout"
	"github.com/youruser/duelsim/internal/ocr"
	"github.com/youruser/duelsim/internal/scan"
	"github.com/youruser/duelsim/internal/storage"
)

// Store is the replay persistence the API needs.
type Store interface {
	SaveReplay(ctx context.Context, r *storage.Replay) error
	GetReplay(ctx context.Context, id string) (*storage.Replay, error)
	ListReplays(ctx context.Context, limit int) ([]*storage.Replay, error)
	DeleteReplay(ctx context.Context, id string) error
}

type Options struct {
	Language      ocr.Language
	Profile       string
	MinConfidence float64
	PublicURL     string
	AnalyzeRate   float64
	AnalyzeBurst  int
}

type Server struct {
	engines  *ocr.Manager
	profiles *layout.Registry
	store    Store
	opts     Options
	limiter  *rate.Limiter
}

func NewServer(engines *ocr.Manager, profiles *layout.Registry, store Store, opts Options) *Server {
	if opts.Language == "" {
		opts.Language = ocr.Japanese
	}
	if opts.AnalyzeBurst < 1 {
		opts.AnalyzeBurst = 1
	}
	limit := rate.Inf
	if opts.AnalyzeRate > 0 {
		limit = rate.Limit(opts.AnalyzeRate)
	}
	return &Server{
		engines:  engines,
		profiles: profiles,
		store:    store,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, opts.AnalyzeBurst),
	}
}

// throttle rejects requests above the analyze rate.
func (s *Server) throttle(c *gin.Context) {
	if !s.limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many deck uploads, try again shortly"})
		return
	}
	c.Next()
}

func (s *Server) analyzer(profile string) (*scan.Analyzer, error) {
	if profile == "" {
		profile = s.opts.Profile
	}
	p, err := s.profiles.Get(profile)
	if err != nil {
		return nil, err
	}
	a := scan.NewAnalyzer(s.engines, p)
	a.MinConfidence = s.opts.MinConfidence
	return a, nil
}

func (s *Server) language(tag string) (ocr.Language, error) {
	if tag == "" {
		return s.opts.Language, nil
	}
	return ocr.ParseLanguage(tag)
}

// fail writes err with the status its kind maps to.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, imagepkg.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": imagepkg.ErrInvalidImage.Error(), "detail": err.Error()})
	case errors.Is(err, scan.ErrStructureNotDetected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "couldn't find the deck sections; try again with a clearer, uncropped deck image"})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
