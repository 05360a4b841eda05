package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeRingPNG writes a 200x200 white PNG with a 3 pixel thick red ring of
// radius 30 around the center.
func writeRingPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			d := math.Hypot(float64(x)-100, float64(y)-100)
			if d >= 28.5 && d <= 31.5 {
				img.Set(x, y, color.RGBA{220, 20, 20, 255})
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func runCmd(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(""), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCmd("--version")
	if code != exitOK {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.HasPrefix(out, "ring-finder dev") {
		t.Errorf("output = %q", out)
	}
}

func TestRun_Help(t *testing.T) {
	code, out, _ := runCmd("-h")
	if code != exitOK {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "--in_dir") || !strings.Contains(out, "verify") {
		t.Errorf("help output missing commands: %q", out)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no flags", nil},
		{"missing out_dir", []string{"--in_dir", "x"}},
		{"bad log level", []string{"--in_dir", "x", "--out_dir", "y", "--log_level", "loud"}},
		{"bad log format", []string{"--in_dir", "x", "--out_dir", "y", "--log_format", "xml"}},
		{"verify without out_dir", []string{"verify"}},
		{"serve with stray argument", []string{"serve", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(tt.args...)
			if code != exitConfig {
				t.Errorf("exit code = %d, want %d", code, exitConfig)
			}
			if !strings.Contains(stderr, "configuration") {
				t.Errorf("stderr = %q, want a configuration error", stderr)
			}
		})
	}
}

func TestRun_BatchThenVerify(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeRingPNG(t, filepath.Join(inDir, "ring.png"))
	if err := os.WriteFile(filepath.Join(inDir, "broken.png"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, stderr := runCmd("--in_dir", inDir, "--out_dir", outDir, "--crop", "--log_level", "error")
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	want := "Scanned 2 images. Found 1 matches. Output -> " + outDir + "\nSkipped (unreadable): broken.png\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ring.jpg")); err != nil {
		t.Errorf("crop not written: %v", err)
	}

	code, out, _ = runCmd("verify", "--out_dir", outDir, "--log_level", "error")
	if code != exitOK || !strings.HasPrefix(out, "OK ") {
		t.Errorf("verify: code = %d, out = %q", code, out)
	}

	if err := os.Remove(filepath.Join(outDir, "ring.jpg")); err != nil {
		t.Fatal(err)
	}
	code, out, _ = runCmd("verify", "--out_dir", outDir, "--log_level", "error")
	if code != exitFailure || !strings.HasPrefix(out, "MISMATCH ") {
		t.Errorf("verify after removal: code = %d, out = %q", code, out)
	}
}

func TestRun_BatchMissingInput(t *testing.T) {
	code, _, _ := runCmd("--in_dir", filepath.Join(t.TempDir(), "missing"), "--out_dir", t.TempDir(), "--log_level", "error")
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
}

func TestRun_Serve(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	code := run(context.Background(), []string{"serve", "--log_level", "error"}, in, &out, &bytes.Buffer{})
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), `"id":1`) {
		t.Errorf("stdout = %q, want a ping response", out.String())
	}
}
