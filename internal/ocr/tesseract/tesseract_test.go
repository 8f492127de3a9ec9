package tesseract

import (
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
)

func TestMeanConfidence(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Word: "40", Confidence: 90},
		{Word: "枚", Confidence: 70},
		{Word: "x", Confidence: 20},
	}
	assert.InDelta(t, 80.0, meanConfidence(boxes[:2], 60), 1e-9)
	assert.InDelta(t, 160.0/3, meanConfidence(boxes, 60), 1e-9)
	assert.Zero(t, meanConfidence(nil, 60))
}
