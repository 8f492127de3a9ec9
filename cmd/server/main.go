package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	flag "github.com/ogier/pflag"

	"github.com/youruser/duelsim/internal/api"
	"github.com/youruser/duelsim/internal/config"
	"github.com/youruser/duelsim/internal/layout"
	"github.com/youruser/duelsim/internal/ocr"
	"github.com/youruser/duelsim/internal/ocr/tesseract"
	"github.com/youruser/duelsim/internal/storage"
)

func main() {
	defaultPath := os.Getenv("DUELSIM_CONFIG")
	if defaultPath == "" {
		defaultPath = "config.toml"
	}
	var (
		path        string
		writeConfig bool
	)
	flag.StringVarP(&path, "config", "c", defaultPath, "Path to the TOML configuration file.")
	flag.BoolVar(&writeConfig, "write-config", false, "Write the effective configuration to --config and exit.")
	flag.Parse()

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}
	if writeConfig {
		if err := cfg.Save(path); err != nil {
			log.Fatal(err)
		}
		log.Println("wrote configuration to", path)
		return
	}

	profiles := layout.NewRegistry()
	if cfg.Layout.ProfilesFile != "" {
		if err := profiles.LoadProfiles(cfg.Layout.ProfilesFile); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := profiles.Get(cfg.Layout.Profile); err != nil {
		log.Fatal(err)
	}

	db, err := storage.Open(storage.DefaultConfig(cfg.Storage.Path))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	engines := ocr.NewManager(tesseract.Factory(cfg.OCR.Tessdata))
	defer engines.Close()

	lang, _ := ocr.ParseLanguage(cfg.OCR.Language)
	srv := api.NewServer(engines, profiles, db, api.Options{
		Language:      lang,
		Profile:       cfg.Layout.Profile,
		MinConfidence: cfg.OCR.MinConfidence,
		PublicURL:     cfg.Server.PublicURL,
		AnalyzeRate:   cfg.Server.AnalyzeRate,
		AnalyzeBurst:  cfg.Server.AnalyzeBurst,
	})

	r := gin.Default()
	srv.RegisterRoutes(r)

	log.Println("starting server on http://localhost:" + cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		log.Println(err)
	}
}
