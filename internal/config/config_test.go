package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ironsheep/red-ring-finder/internal/detection"
)

// writeConfig writes content to a TOML file in a per-test directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ring-finder.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile_EmptyPath(t *testing.T) {
	f, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !reflect.DeepEqual(f.Detection, detection.DefaultParams()) {
		t.Error("empty path should yield default parameters")
	}
	if f.Log != (Log{}) {
		t.Errorf("Log = %+v, want zero value", f.Log)
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	path := writeConfig(t, `
[detection]
min_ring_ratio = 0.2
min_covered_sectors = 11

[[detection.red_bands]]
hue_min = 0
hue_max = 6
sat_min = 120
sat_max = 255
val_min = 100
val_max = 255

[log]
level = "debug"
format = "json"
`)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	def := detection.DefaultParams()
	if f.Detection.MinRingRatio != 0.2 {
		t.Errorf("MinRingRatio = %g, want 0.2", f.Detection.MinRingRatio)
	}
	if f.Detection.MinCoveredSectors != 11 {
		t.Errorf("MinCoveredSectors = %d, want 11", f.Detection.MinCoveredSectors)
	}
	if f.Detection.MaxRadius != def.MaxRadius {
		t.Errorf("MaxRadius = %d, want default %d", f.Detection.MaxRadius, def.MaxRadius)
	}
	if len(f.Detection.RedBands) != 1 {
		t.Fatalf("RedBands has %d bands, want 1", len(f.Detection.RedBands))
	}
	if b := f.Detection.RedBands[0]; b.HueMax != 6 || b.SatMin != 120 {
		t.Errorf("RedBands[0] = %+v", b)
	}
	if f.Log.Level != "debug" || f.Log.Format != "json" {
		t.Errorf("Log = %+v", f.Log)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
	}{
		{
			name:    "unknown key",
			content: "[detection]\nmin_ring_ratoi = 0.2\n",
			key:     "detection.min_ring_ratoi",
		},
		{
			name:    "invalid value",
			content: "[detection]\nmin_ring_ratio = 1.5\n",
			key:     "detection.min_ring_ratio",
		},
		{
			name:    "even blur kernel",
			content: "[detection]\nblur_kernel_size = 8\n",
			key:     "detection.blur_kernel_size",
		},
		{
			name:    "malformed",
			content: "[detection\nmin_ring_ratio = ",
			key:     "config",
		},
		{
			name:    "wrong type",
			content: "[detection]\nmax_radius = \"big\"\n",
			key:     "config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatalf("LoadFile() error = %v, want *Error", err)
			}
			if ce.Key != tt.key {
				t.Errorf("Key = %q, want %q", ce.Key, tt.key)
			}
		})
	}
}

func TestLoadFile_InvalidValueWrapsParamError(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "[detection]\nmax_radius = 1\n"))
	var pe *detection.ParamError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want wrapped *detection.ParamError", err)
	}
	if pe.Field != "max_radius" {
		t.Errorf("Field = %q, want max_radius", pe.Field)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *Error", err)
	}
}

func TestError(t *testing.T) {
	err := &Error{Key: "in_dir", Err: ErrMissing}
	if got, want := err.Error(), "configuration in_dir: required setting is missing"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrMissing) {
		t.Error("errors.Is(err, ErrMissing) = false")
	}

	noKey := &Error{Err: errors.New("boom")}
	if got, want := noKey.Error(), "configuration: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
