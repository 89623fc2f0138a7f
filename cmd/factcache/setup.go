package main

import (
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"io"
	"log/slog"
	"strings"
)

func (g *globalFlags) loadConfig() (*config.Cache, error) {
	if g.configPath == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(g.configPath)
}

func (g *globalFlags) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", g.logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(g.logFormat) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "text", "":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", g.logFormat)
	}
	return slog.New(h).With(slog.String("service", "factcache")), nil
}
