package slicer

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"

	imagepkg "github.com/youruser/duelsim/internal/image"
)

type rendered struct {
	img image.Image
	url string
	err error
}

// render cuts window r and scales it to w x h. A window reaching past the
// image edge is an error; stretching the visible part would distort the card.
func render(src image.Image, r image.Rectangle, w, h int) rendered {
	if !r.In(src.Bounds()) {
		return rendered{err: fmt.Errorf("window %v not inside image %v", r, src.Bounds())}
	}
	cut := imaging.Resize(imaging.Crop(src, r), w, h, imaging.Lanczos)
	url, err := imagepkg.DataURL(cut)
	if err != nil {
		return rendered{err: err}
	}
	return rendered{img: cut, url: url}
}

// renderAll cuts every position concurrently; results keep input order.
func renderAll(src image.Image, positions []Position, w, h int) []rendered {
	out := make([]rendered, len(positions))
	workers := runtime.NumCPU()
	if workers > len(positions) {
		workers = len(positions)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out[j] = render(src, positions[j].Rect, w, h)
			}
		}()
	}
	for j := range positions {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	return out
}
