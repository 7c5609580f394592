package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coilscope.yaml")
	doc := `
input:
  device: /dev/ttyACM0
  baud: 230400
output:
  mode: meter
capture:
  database: run.db
  maxFrames: 1000
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Input.Device != "/dev/ttyACM0" || cfg.Input.Baud != 230400 {
		t.Errorf("input = %+v", cfg.Input)
	}
	if cfg.Output.Mode != "meter" {
		t.Errorf("mode = %q", cfg.Output.Mode)
	}
	if cfg.Capture.Database != "run.db" || cfg.Capture.MaxFrames != 1000 {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if cfg.Capture.Waterfall != "" {
		t.Errorf("waterfall = %q, want empty", cfg.Capture.Waterfall)
	}
}

// TestLoadConfigPartial: fields absent from the file keep their defaults.
func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coilscope.yaml")
	if err := os.WriteFile(path, []byte("output:\n  mode: meter\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Input.Baud != 115200 {
		t.Errorf("baud default = %d, want 115200", cfg.Input.Baud)
	}
	if cfg.Output.Mode != "meter" {
		t.Errorf("mode = %q", cfg.Output.Mode)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig on a missing file succeeded")
	}
}

func TestDominantModulation(t *testing.T) {
	// A 100Hz square-ish modulation sampled at the control rate.
	samples := make([]float64, 4096)
	for i := range samples {
		if (i*100*2/ControlRateHz)%2 == 0 {
			samples[i] = 8000
		} else {
			samples[i] = -8000
		}
	}
	freq, ok := dominantModulation(samples)
	if !ok {
		t.Fatal("no dominant frequency found")
	}
	if freq < 90 || freq > 110 {
		t.Errorf("dominant frequency = %.1f, want ~100", freq)
	}

	if _, ok := dominantModulation(nil); ok {
		t.Error("dominantModulation(nil) reported a frequency")
	}
	if _, ok := dominantModulation(make([]float64, 4096)); ok {
		t.Error("dominantModulation of silence reported a frequency")
	}
}
