package imaging

import (
	"image"
	"strings"
	"testing"
)

func TestEllipseElement_7x7(t *testing.T) {
	want := []string{
		"...X...",
		".XXXXX.",
		"XXXXXXX",
		"XXXXXXX",
		"XXXXXXX",
		".XXXXX.",
		"...X...",
	}

	grid := make([][]byte, 7)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(".", 7))
	}
	for _, p := range EllipseElement(7, 7) {
		grid[p.Y+3][p.X+3] = 'X'
	}

	for i, row := range grid {
		if string(row) != want[i] {
			t.Errorf("row %d: got %s, want %s", i, row, want[i])
		}
	}
	if n := len(EllipseElement(7, 7)); n != 33 {
		t.Errorf("element size: got %d, want 33", n)
	}
}

func TestEllipseElement_Degenerate(t *testing.T) {
	elem := EllipseElement(0, 0)
	if len(elem) != 1 || elem[0] != (image.Point{}) {
		t.Errorf("degenerate element: got %v, want single origin", elem)
	}
}

func TestClose_BridgesGap(t *testing.T) {
	// A 3px thick bar with a 2px break in the middle.
	mask := image.NewGray(image.Rect(0, 0, 40, 20))
	for y := 9; y <= 11; y++ {
		for x := 5; x < 35; x++ {
			if x == 19 || x == 20 {
				continue
			}
			mask.Pix[y*mask.Stride+x] = 255
		}
	}

	closed := Close(mask, EllipseElement(7, 7), 1)

	for x := 5; x < 35; x++ {
		if closed.GrayAt(x, 10).Y != 255 {
			t.Errorf("pixel (%d,10) should be on after closing", x)
		}
	}
	if closed.GrayAt(20, 2).Y != 0 {
		t.Error("closing should not grow the line vertically")
	}
	if mask.GrayAt(19, 10).Y != 0 {
		t.Error("Close must not modify its input")
	}
}

func TestClose_KeepsLargeHole(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 40, 40))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			mask.Pix[y*mask.Stride+x] = 0
		}
	}

	closed := Close(mask, EllipseElement(7, 7), 1)

	if closed.GrayAt(20, 20).Y != 0 {
		t.Error("hole wider than the element should survive closing")
	}
	if closed.GrayAt(0, 0).Y != 255 {
		t.Error("border pixels should stay on")
	}
}

func TestErode_BorderIsOn(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}

	eroded := Erode(mask, EllipseElement(7, 7))

	if n := CountNonZero(eroded); n != 100 {
		t.Errorf("fully-on mask lost pixels at the border: %d of 100 remain", n)
	}
}

func TestDilate_SinglePixel(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 15, 15))
	mask.Pix[7*mask.Stride+7] = 255

	dilated := Dilate(mask, EllipseElement(7, 7))

	if n := CountNonZero(dilated); n != 33 {
		t.Errorf("dilated pixel count: got %d, want 33", n)
	}
	if dilated.GrayAt(4, 4).Y != 0 {
		t.Error("ellipse corner should stay off")
	}

	// Erosion by a symmetric element undoes the dilation of a lone pixel.
	back := Erode(dilated, EllipseElement(7, 7))
	if n := CountNonZero(back); n != 1 || back.GrayAt(7, 7).Y != 255 {
		t.Errorf("erode(dilate(pixel)): got %d pixels", n)
	}
}
