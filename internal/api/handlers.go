package api

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/youruser/duelsim/internal/cards"
	"github.com/youruser/duelsim/internal/deck"
	imagepkg "github.com/youruser/duelsim/internal/image"
	"github.com/youruser/duelsim/internal/importer"
	"github.com/youruser/duelsim/internal/storage"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// health reports the live OCR language once an engine has started.
func (s *Server) health(c *gin.Context) {
	res := gin.H{"status": "ok"}
	if lang, live := s.engines.Language(); live {
		res["ocr"] = lang
	}
	c.JSON(http.StatusOK, res)
}

type analyzeRequest struct {
	Image    string          `json:"image" form:"-"`
	Language string          `json:"language" form:"language"`
	Profile  string          `json:"profile" form:"profile"`
	Mapping  *deck.IDMapping `json:"mapping" form:"-"`
}

// readAnalyzeRequest reads the uploaded image from a multipart "image" file or a
// JSON image reference (data URL or http URL).
func (s *Server) readAnalyzeRequest(c *gin.Context) (analyzeRequest, image.Image, []byte, error) {
	var req analyzeRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			return req, nil, nil, badRequest("%v", err)
		}
		fh, err := c.FormFile("image")
		if err != nil {
			return req, nil, nil, badRequest("missing image file")
		}
		f, err := fh.Open()
		if err != nil {
			return req, nil, nil, err
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return req, nil, nil, err
		}
		img, err := imagepkg.Decode(raw)
		return req, img, raw, err
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, nil, nil, badRequest("%v", err)
	}
	img, raw, err := imagepkg.Load(c.Request.Context(), req.Image)
	return req, img, raw, err
}

func (s *Server) analyzeHandler(c *gin.Context) {
	req, img, _, err := s.readAnalyzeRequest(c)
	if err != nil {
		fail(c, err)
		return
	}
	lang, err := s.language(req.Language)
	if err != nil {
		fail(c, badRequest("%v", err))
		return
	}
	a, err := s.analyzer(req.Profile)
	if err != nil {
		fail(c, badRequest("%v", err))
		return
	}

	res, err := importer.New(a).Import(c.Request.Context(), img, lang, req.Mapping)
	if err != nil {
		fail(c, err)
		return
	}
	missing := len(cards.Filter(res.Cards, cards.FilterOptions{ImageMode: "without"}))
	c.JSON(http.StatusOK, gin.H{
		"configuration": res.Config,
		"cards":         res.Cards,
		"mapping":       res.Mapping,
		"counts":        cards.CountByZone(res.Cards),
		"missing":       missing,
	})
}

type relinkRequest struct {
	Image         string              `json:"image" binding:"required"`
	Configuration *deck.Configuration `json:"configuration" binding:"required"`
	Mapping       *deck.IDMapping     `json:"mapping" binding:"required"`
}

func (s *Server) relinkHandler(c *gin.Context) {
	var req relinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest("%v", err))
		return
	}
	img, _, err := imagepkg.Load(c.Request.Context(), req.Image)
	if err != nil {
		fail(c, err)
		return
	}
	restored, err := importer.Restore(img, req.Configuration, req.Mapping)
	if err != nil {
		fail(c, badRequest("%v", err))
		return
	}
	images := make(map[string]string, len(restored))
	for _, card := range restored {
		if card.HasImage() {
			images[card.ID] = card.ImageURL
		}
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

type saveReplayRequest struct {
	Image         string              `json:"image" binding:"required"`
	Language      string              `json:"language"`
	Profile       string              `json:"profile"`
	Configuration *deck.Configuration `json:"configuration" binding:"required"`
	Mapping       *deck.IDMapping     `json:"mapping" binding:"required"`
}

func (s *Server) saveReplayHandler(c *gin.Context) {
	var req saveReplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest("%v", err))
		return
	}
	lang, err := s.language(req.Language)
	if err != nil {
		fail(c, badRequest("%v", err))
		return
	}
	_, raw, err := imagepkg.Load(c.Request.Context(), req.Image)
	if err != nil {
		fail(c, err)
		return
	}
	if err := req.Configuration.Validate(); err != nil {
		fail(c, badRequest("%v", err))
		return
	}
	if err := req.Mapping.Validate(req.Configuration); err != nil {
		fail(c, badRequest("%v", err))
		return
	}
	profile := req.Profile
	if profile == "" {
		profile = s.opts.Profile
	}
	r := &storage.Replay{
		Language:  string(lang),
		Profile:   profile,
		DeckImage: raw,
		Config:    req.Configuration,
		Mapping:   req.Mapping,
	}
	if err := s.store.SaveReplay(c.Request.Context(), r); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": r.ID, "shareUrl": s.shareURL(r.ID)})
}

func (s *Server) listReplaysHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := s.store.ListReplays(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "replays": list})
}

// getReplayHandler restores the replay's card images from the stored deck
// image; pixels are never persisted.
func (s *Server) getReplayHandler(c *gin.Context) {
	r, err := s.store.GetReplay(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	img, err := imagepkg.Decode(r.DeckImage)
	if err != nil {
		fail(c, err)
		return
	}
	restored, err := importer.Restore(img, r.Config, r.Mapping)
	if err != nil {
		log.Printf("api: replay %s: %v", r.ID, err)
		fail(c, err)
		return
	}
	opt := cards.FilterOptions{}
	if z := c.Query("zone"); z != "" {
		zone, err := deck.ParseZone(z)
		if err != nil {
			fail(c, badRequest("%v", err))
			return
		}
		opt.Zones = []deck.Zone{zone}
	}
	c.JSON(http.StatusOK, gin.H{"replay": r, "cards": cards.Filter(restored, opt)})
}

func (s *Server) deleteReplayHandler(c *gin.Context) {
	if err := s.store.DeleteReplay(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) shareURL(id string) string {
	return strings.TrimRight(s.opts.PublicURL, "/") + "/replay/" + id
}

// qr endpoint returns a PNG share code for the replay
func (s *Server) replayQRHandler(c *gin.Context) {
	r, err := s.store.GetReplay(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	size := 400
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(s.shareURL(r.ID), size)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
