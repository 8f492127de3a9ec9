// Command deckslice imports a deck screenshot from the command line and
// writes the cut card images, the id mapping and the detected layout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/ogier/pflag"

	"github.com/youruser/duelsim/internal/cards"
	"github.com/youruser/duelsim/internal/deck"
	imagepkg "github.com/youruser/duelsim/internal/image"
	"github.com/youruser/duelsim/internal/importer"
	"github.com/youruser/duelsim/internal/layout"
	"github.com/youruser/duelsim/internal/ocr"
	"github.com/youruser/duelsim/internal/ocr/tesseract"
	"github.com/youruser/duelsim/internal/scan"
	"github.com/youruser/duelsim/internal/util"
)

type options struct {
	Input         string
	OutputDir     string
	Language      string
	Profile       string
	ProfilesFile  string
	Mapping       string
	Preview       string
	Tessdata      string
	MinConfidence float64
}

func main() {
	var opts options
	flag.StringVarP(&opts.Input, "input", "i", "", "Deck image: a file path, http(s) URL or data URL.")
	flag.StringVarP(&opts.OutputDir, "out", "o", "./cards/", "Directory to write card images and JSON to.")
	flag.StringVarP(&opts.Language, "lang", "l", string(ocr.Japanese), "Label language (ja, en, zh, ko).")
	flag.StringVarP(&opts.Profile, "profile", "p", layout.WideLabel,
		fmt.Sprintf("Layout profile (%s, or one from --profiles).", strings.Join(layout.Names(), ", ")))
	flag.StringVar(&opts.ProfilesFile, "profiles", "", "YAML file with extra layout profiles.")
	flag.StringVarP(&opts.Mapping, "mapping", "m", "", "Existing mapping.json whose card ids are kept.")
	flag.StringVar(&opts.Preview, "preview", "", "Write a contact sheet of all cards to this PNG.")
	flag.StringVar(&opts.Tessdata, "tessdata", "", "Tesseract tessdata directory.")
	flag.Float64Var(&opts.MinConfidence, "min-confidence", 0, "Reject label readings below this confidence.")
	flag.Parse()

	if opts.Input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(context.Background(), opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	lang, err := ocr.ParseLanguage(opts.Language)
	if err != nil {
		return err
	}
	profiles := layout.NewRegistry()
	if opts.ProfilesFile != "" {
		if err := profiles.LoadProfiles(opts.ProfilesFile); err != nil {
			return err
		}
	}
	profile, err := profiles.Get(opts.Profile)
	if err != nil {
		return err
	}
	img, err := loadImage(ctx, opts.Input)
	if err != nil {
		return err
	}
	var existing *deck.IDMapping
	if opts.Mapping != "" {
		if existing, err = readMapping(opts.Mapping); err != nil {
			return err
		}
	}

	engines := ocr.NewManager(tesseract.Factory(opts.Tessdata))
	defer engines.Close()
	a := scan.NewAnalyzer(engines, profile)
	a.MinConfidence = opts.MinConfidence

	session := scan.NewSession(a)
	session.Load(img)
	cfg, err := session.Run(ctx, lang)
	if err != nil {
		return err
	}
	res, err := importer.Cut(img, cfg, existing)
	if err != nil {
		return err
	}

	var zones [][]image.Image
	for _, z := range deck.Zones() {
		var cut []image.Image
		for _, c := range res.Extraction.Zone(z) {
			if c.Image == nil {
				continue
			}
			b, err := imagepkg.EncodePNG(c.Image)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("%02d_%s.png", c.Index, c.ID)
			if err := util.WriteFile(filepath.Join(opts.OutputDir, string(z), name), b); err != nil {
				return err
			}
			cut = append(cut, c.Image)
		}
		zones = append(zones, cut)
	}
	if err := writeJSON(filepath.Join(opts.OutputDir, "mapping.json"), res.Mapping); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(opts.OutputDir, "configuration.json"), res.Config); err != nil {
		return err
	}
	if opts.Preview != "" {
		b, err := imagepkg.EncodePNG(imagepkg.ComposePreview(zones))
		if err != nil {
			return err
		}
		if err := util.WriteFile(opts.Preview, b); err != nil {
			return err
		}
	}

	fmt.Println(deck.Summary(res.Config))
	cut := cards.CountByZone(cards.Filter(res.Cards, cards.FilterOptions{ImageMode: "with"}))
	for _, z := range res.Config.Sections() {
		fmt.Printf("%s: %d of %d cards cut\n", z.Type, cut[z.Type], z.Count)
	}
	if err := res.Extraction.Err(); err != nil {
		log.Println("some cards could not be cut:", err)
	}
	return nil
}

func loadImage(ctx context.Context, ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		img, _, err := imagepkg.Load(ctx, ref)
		return img, err
	}
	b, err := os.ReadFile(ref)
	if err != nil {
		return nil, err
	}
	return imagepkg.Decode(b)
}

func readMapping(path string) (*deck.IDMapping, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := deck.NewIDMapping()
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFile(path, b)
}
