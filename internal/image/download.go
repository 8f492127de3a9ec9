package imagepkg

import (
	"context"
	"fmt"

	"github.com/youruser/duelsim/internal/util"
)

// DownloadBytes fetches an encoded image from URL.
func DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	b, err := util.GetBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("downloading deck image: %w", err)
	}
	return b, nil
}
