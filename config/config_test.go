package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.Channels != DefaultChannels || cfg.LatchTime != DefaultLatchTime {
		t.Errorf("Expected defaults, got channels=%d latch=%v", cfg.Channels, cfg.LatchTime)
	}
	if cfg.ZoneFolder != filepath.Join(home, ".config", "csurf", "zones") {
		t.Errorf("ZoneFolder = %s", cfg.ZoneFolder)
	}
	if len(cfg.Widgets) == 0 {
		t.Errorf("Expected default widgets")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CSURF_CHANNELS", "4")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Channels != 4 {
		t.Errorf("Expected channels from environment, got %d", cfg.Channels)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "surface.yaml", `
surface: XTouch
zoneFolder: ~/zones
channels: 2
latchTime: 250ms
focusedFXParam: true
offsets:
  TrackSend: 1
osc:
  listen: 127.0.0.1:9000
widgets:
  - name: Fader1
    channel: 1
    kind: fader
    midi: {type: pitchbend, channel: 0}
  - name: Rotary1
    channel: 1
    kind: encoder
    midi: {type: cc, number: 16}
    accel:
      inc: [1, 2, 3]
      dec: [65, 66, 67]
  - name: Display1
    channel: 1
    kind: display
    osc: /Display1
`)
	t.Setenv("HOME", "/home/user")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.Surface != "XTouch" || cfg.Channels != 2 || cfg.LatchTime != 250*time.Millisecond {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.ZoneFolder != "/home/user/zones" {
		t.Errorf("Expected ~ expanded, got %s", cfg.ZoneFolder)
	}
	if !cfg.FocusedFXParam || cfg.Offsets["TrackSend"] != 1 {
		t.Errorf("Unexpected flags/offsets %+v %v", cfg.FocusedFXParam, cfg.Offsets)
	}
	if len(cfg.Widgets) != 3 || cfg.Widgets[1].Accel == nil || len(cfg.Widgets[1].Accel.Dec) != 3 {
		t.Errorf("Unexpected widgets %+v", cfg.Widgets)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"channels", "channels: 0\n", "invalid config"},
		{"kind", "widgets:\n  - {name: A, kind: knob, osc: /a}\n", "invalid config"},
		{"midi type", "widgets:\n  - {name: A, kind: button, midi: {type: sysex}}\n", "invalid config"},
		{"duplicate", "widgets:\n  - {name: A, kind: button, osc: /a}\n  - {name: A, kind: button, osc: /b}\n", "duplicate widget"},
		{"unbound", "widgets:\n  - {name: A, kind: button}\n", "no midi or osc"},
		{"osc address", "osc: {listen: nonsense}\n", "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "bad.yaml", tt.text)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("Expected error for a missing explicit config")
	}
}

func TestDefaultWidgets(t *testing.T) {
	cfg := &Config{Surface: "S", ZoneFolder: "z", Channels: 8, RefreshRate: time.Millisecond, Session: SessionConfig{Tracks: 1}}
	cfg.Widgets = DefaultWidgets(8)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default widgets should validate: %v", err)
	}
}
