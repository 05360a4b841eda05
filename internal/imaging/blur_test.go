package imaging

import (
	"image"
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	k := GaussianKernel(9, 2)

	if k.MaxX() != 9 || k.MaxY() != 1 {
		t.Fatalf("kernel size: got %dx%d, want 9x1", k.MaxX(), k.MaxY())
	}

	var sum float64
	for i := 0; i < 9; i++ {
		sum += k.At(i, 0)
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("kernel sum: got %f, want 1", sum)
	}

	for i := 0; i < 4; i++ {
		if k.At(i, 0) != k.At(8-i, 0) {
			t.Errorf("kernel not symmetric at %d", i)
		}
		if k.At(i, 0) >= k.At(i+1, 0) {
			t.Errorf("kernel not increasing toward center at %d", i)
		}
	}
}

func TestGaussianBlur_Uniform(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	blurred := GaussianBlur(src, 9, 2)

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if v := blurred.GrayAt(x, y).Y; v < 199 || v > 200 {
				t.Fatalf("blurred(%d,%d): got %d, want ~200", x, y, v)
			}
		}
	}
}

func TestGaussianBlur_Spot(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 21, 21))
	for y := 8; y <= 12; y++ {
		for x := 8; x <= 12; x++ {
			src.Pix[y*src.Stride+x] = 255
		}
	}

	blurred := GaussianBlur(src, 9, 2)

	center := blurred.GrayAt(10, 10).Y
	if center >= 255 || center == 0 {
		t.Errorf("center should be reduced but not cleared, got %d", center)
	}
	if blurred.GrayAt(6, 10).Y == 0 {
		t.Error("blur should spread into neighbors")
	}
	if blurred.GrayAt(0, 0).Y != 0 {
		t.Error("blur should not reach the far corner")
	}

	left := int(blurred.GrayAt(7, 10).Y)
	right := int(blurred.GrayAt(13, 10).Y)
	if d := left - right; d < -1 || d > 1 {
		t.Errorf("blur not symmetric: left %d, right %d", left, right)
	}
}
