package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// WidgetKind says how a widget's messages are decoded
type WidgetKind string

const (
	KindButton  WidgetKind = "button"
	KindFader   WidgetKind = "fader"
	KindEncoder WidgetKind = "encoder"
	KindTouch   WidgetKind = "touch"
	KindDisplay WidgetKind = "display"
)

// MIDI message types a widget can listen to
const (
	MsgCC        = "cc"
	MsgNote      = "note"
	MsgPitchBend = "pitchbend"
)

// MIDIMessage identifies the message a widget sends or receives
type MIDIMessage struct {
	Type    string `mapstructure:"type" validate:"required,oneof=cc note pitchbend"`
	Channel uint8  `mapstructure:"channel" validate:"lte=15"`
	Number  uint8  `mapstructure:"number" validate:"lte=127"`
}

// AccelTable maps encoder data bytes to acceleration indices. The position
// of a byte in Inc or Dec is its index.
type AccelTable struct {
	Inc []uint8 `mapstructure:"inc" validate:"dive,lte=127"`
	Dec []uint8 `mapstructure:"dec" validate:"dive,lte=127"`
}

// WidgetConfig defines one physical control or display
type WidgetConfig struct {
	Name     string       `mapstructure:"name" validate:"required"`
	Channel  int          `mapstructure:"channel" validate:"gte=0"`
	Kind     WidgetKind   `mapstructure:"kind" validate:"required,oneof=button fader encoder touch display"`
	MIDI     *MIDIMessage `mapstructure:"midi"`
	Feedback *MIDIMessage `mapstructure:"feedback"` // defaults to MIDI
	OSC      string       `mapstructure:"osc" validate:"omitempty,startswith=/"`
	Accel    *AccelTable  `mapstructure:"accel"`
}

// FeedbackMIDI is the message used to render feedback
func (w WidgetConfig) FeedbackMIDI() *MIDIMessage {
	if w.Feedback != nil {
		return w.Feedback
	}
	return w.MIDI
}

// MIDIConfig names the surface's ports; empty disables MIDI
type MIDIConfig struct {
	Input   string `mapstructure:"input"`
	Output  string `mapstructure:"output"`
	Palette string `mapstructure:"palette"` // button colours: "novation" or a .gpl file
}

// OSCConfig sets the listen address and the feedback destination
type OSCConfig struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
	Remote string `mapstructure:"remote" validate:"omitempty,hostname_port"`
}

// FXConfig puts a plugin on a track of the built-in session
type FXConfig struct {
	Track  int      `mapstructure:"track" validate:"gte=1"`
	Name   string   `mapstructure:"name" validate:"required"`
	Params []string `mapstructure:"params"`
}

// SessionConfig seeds the built-in session
type SessionConfig struct {
	Tracks int        `mapstructure:"tracks" validate:"gte=1,lte=256"`
	FX     []FXConfig `mapstructure:"fx" validate:"dive"`
}

// Config is the main configuration structure
type Config struct {
	Surface        string         `mapstructure:"surface" validate:"required"`
	ZoneFolder     string         `mapstructure:"zoneFolder" validate:"required"`
	AliasFile      string         `mapstructure:"aliasFile"`
	Channels       int            `mapstructure:"channels" validate:"gte=1,lte=64"`
	LatchTime      time.Duration  `mapstructure:"latchTime" validate:"gte=0"`
	FocusedFXParam bool           `mapstructure:"focusedFXParam"`
	RefreshRate    time.Duration  `mapstructure:"refreshRate" validate:"gt=0"`
	Offsets        map[string]int `mapstructure:"offsets"`
	MIDI           MIDIConfig     `mapstructure:"midi"`
	OSC            OSCConfig      `mapstructure:"osc"`
	Session        SessionConfig  `mapstructure:"session"`
	Widgets        []WidgetConfig `mapstructure:"widgets" validate:"dive"`
}

// Defaults
const (
	DefaultChannels    = 8
	DefaultLatchTime   = 100 * time.Millisecond
	DefaultRefreshRate = 33 * time.Millisecond
	DefaultSurface     = "Surface"
)

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "csurf"), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("surface", DefaultSurface)
	v.SetDefault("zoneFolder", filepath.Join(dir, "zones"))
	v.SetDefault("aliasFile", filepath.Join(dir, "aliases.txt"))
	v.SetDefault("channels", DefaultChannels)
	v.SetDefault("latchTime", DefaultLatchTime)
	v.SetDefault("refreshRate", DefaultRefreshRate)
	v.SetDefault("session.tracks", 16)
}

// Load reads the config at path, or config.{yaml,json,toml} in the config
// directory when path is empty. A missing default file yields defaults.
func Load(path string) (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		dir = "."
	}

	v := viper.New()
	setDefaults(v, dir)
	v.SetEnvPrefix("CSURF")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal the config: %w", err)
	}
	cfg.Offsets = canonicalOffsets(cfg.Offsets)
	cfg.ZoneFolder = expandHome(cfg.ZoneFolder)
	cfg.AliasFile = expandHome(cfg.AliasFile)
	if len(cfg.Widgets) == 0 {
		cfg.Widgets = DefaultWidgets(cfg.Channels)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-field rules
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.Widgets))
	for _, w := range c.Widgets {
		if seen[w.Name] {
			return fmt.Errorf("invalid config: duplicate widget %q", w.Name)
		}
		seen[w.Name] = true
		if w.Channel > c.Channels {
			return fmt.Errorf("invalid config: widget %q on channel %d of %d", w.Name, w.Channel, c.Channels)
		}
		if w.Kind != KindDisplay && w.MIDI == nil && w.OSC == "" {
			return fmt.Errorf("invalid config: widget %q has no midi or osc binding", w.Name)
		}
	}
	return nil
}

// OffsetNames are the zone families that take a slot offset
var OffsetNames = []string{
	"TrackSend", "TrackReceive", "TrackFXMenu",
	"SelectedTrackSend", "SelectedTrackReceive", "SelectedTrackFXMenu",
	"MasterTrackFXMenu",
}

// canonicalOffsets restores the case viper folds out of map keys
func canonicalOffsets(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		name := k
		for _, n := range OffsetNames {
			if strings.EqualFold(n, k) {
				name = n
				break
			}
		}
		out[name] = v
	}
	return out
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// DefaultWidgets lays out a Mackie-style strip per channel plus transport
// and modifier buttons.
func DefaultWidgets(channels int) []WidgetConfig {
	var out []WidgetConfig
	note := func(n int) *MIDIMessage { return &MIDIMessage{Type: MsgNote, Number: uint8(n)} }

	for ch := 1; ch <= channels && ch <= 8; ch++ {
		i := ch - 1
		out = append(out,
			WidgetConfig{Name: fmt.Sprintf("Fader%d", ch), Channel: ch, Kind: KindFader,
				MIDI: &MIDIMessage{Type: MsgPitchBend, Channel: uint8(i)}, OSC: fmt.Sprintf("/Fader%d", ch)},
			WidgetConfig{Name: fmt.Sprintf("FaderTouch%d", ch), Channel: ch, Kind: KindTouch, MIDI: note(104 + i)},
			WidgetConfig{Name: fmt.Sprintf("Rotary%d", ch), Channel: ch, Kind: KindEncoder,
				MIDI: &MIDIMessage{Type: MsgCC, Number: uint8(16 + i)}, Feedback: &MIDIMessage{Type: MsgCC, Number: uint8(48 + i)},
				OSC: fmt.Sprintf("/Rotary%d", ch)},
			WidgetConfig{Name: fmt.Sprintf("RotaryPush%d", ch), Channel: ch, Kind: KindButton, MIDI: note(32 + i)},
			WidgetConfig{Name: fmt.Sprintf("Mute%d", ch), Channel: ch, Kind: KindButton, MIDI: note(16 + i), OSC: fmt.Sprintf("/Mute%d", ch)},
			WidgetConfig{Name: fmt.Sprintf("Solo%d", ch), Channel: ch, Kind: KindButton, MIDI: note(8 + i)},
			WidgetConfig{Name: fmt.Sprintf("Select%d", ch), Channel: ch, Kind: KindButton, MIDI: note(24 + i), OSC: fmt.Sprintf("/Select%d", ch)},
			WidgetConfig{Name: fmt.Sprintf("Display%d", ch), Channel: ch, Kind: KindDisplay, OSC: fmt.Sprintf("/Display%d", ch)},
			WidgetConfig{Name: fmt.Sprintf("DisplayLower%d", ch), Channel: ch, Kind: KindDisplay, OSC: fmt.Sprintf("/DisplayLower%d", ch)},
		)
	}

	buttons := []struct {
		name string
		note int
	}{
		{"Shift", 70}, {"Option", 71}, {"Control", 72}, {"Alt", 73},
		{"BankLeft", 46}, {"BankRight", 47}, {"Flip", 50}, {"Global", 51},
		{"Home", 40}, {"FXButton", 43}, {"Stop", 93}, {"Play", 94},
		{"Marker", 84}, {"Nudge", 85}, {"Zoom", 100}, {"Scrub", 101},
	}
	for _, b := range buttons {
		out = append(out, WidgetConfig{Name: b.name, Kind: KindButton, MIDI: note(b.note), OSC: "/" + b.name})
	}
	return out
}
