// Package app assembles a configured surface: zone index, alias cache,
// in-memory session and widgets.
package app

import (
	"fmt"

	"go-csurf/config"
	"go-csurf/daw"
	"go-csurf/debug"
	"go-csurf/engine"
	"go-csurf/modifier"
	"go-csurf/zonefile"
)

// App is a surface bound to its session
type App struct {
	Config  *config.Config
	Index   *zonefile.Index
	Session *daw.Session
	Surface *engine.Surface
}

// Build loads the zone folder and binds the Home zone. Zone file syntax
// errors are logged and kept in Index.Errors.
func Build(cfg *config.Config) (*App, error) {
	ix, err := zonefile.LoadIndex(cfg.ZoneFolder)
	if err != nil {
		return nil, err
	}
	for _, e := range ix.Errors() {
		debug.Log("app", "%v", e)
	}

	aliases, err := zonefile.LoadAliases(cfg.AliasFile)
	if err != nil {
		debug.Log("app", "alias cache: %v", err)
	}

	session, err := NewSession(cfg.Session)
	if err != nil {
		return nil, err
	}

	surf := engine.NewSurface(engine.Options{
		Name:           cfg.Surface,
		Channels:       cfg.Channels,
		Index:          ix,
		Aliases:        aliases,
		Catalogue:      session.Catalogue(),
		Host:           session,
		Views:          session,
		Modifiers:      modifier.New(modifier.WithLatchTime(cfg.LatchTime)),
		FocusedFXParam: cfg.FocusedFXParam,
	})
	for _, w := range cfg.Widgets {
		surf.AddWidget(engine.NewWidget(w.Name, w.Channel))
	}
	for name, v := range cfg.Offsets {
		surf.SetOffset(name, v)
	}

	if err := surf.Initialize(); err != nil {
		return nil, err
	}
	return &App{Config: cfg, Index: ix, Session: session, Surface: surf}, nil
}

// NewSession creates the session and places the configured FX
func NewSession(cfg config.SessionConfig) (*daw.Session, error) {
	s := daw.NewSession(cfg.Tracks)
	tracks := s.Tracks()
	for _, fx := range cfg.FX {
		if fx.Track > len(tracks) {
			return nil, fmt.Errorf("fx %s: track %d of %d", fx.Name, fx.Track, len(tracks))
		}
		params := make([]daw.Param, len(fx.Params))
		for i, name := range fx.Params {
			params[i] = daw.Param{Name: name}
		}
		s.AddFX(tracks[fx.Track-1], fx.Name, params...)
	}
	return s, nil
}
