package api

import (
	"context"
	"net/http"
	"time"

	"github.com/openclaw/qrgen/generator"
)

type statusResponse struct {
	Version    string         `json:"version"`
	Uptime     string         `json:"uptime"`
	OutputDir  string         `json:"output_dir"`
	Foreground string         `json:"foreground,omitempty"`
	Background string         `json:"background,omitempty"`
	PaletteErr string         `json:"palette_error,omitempty"`
	LastRun    *generator.Run `json:"last_run,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Version:   s.Version,
		Uptime:    time.Since(s.StartTime).Truncate(time.Second).String(),
		OutputDir: s.Generator.OutputDir(),
		LastRun:   s.Generator.LastRun(),
	}
	if p, err := s.Generator.Palette(); err != nil {
		resp.PaletteErr = err.Error()
	} else {
		resp.Foreground = p.Foreground.Hex()
		resp.Background = p.Background.Hex()
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleGenerate detaches from the request context: once the old files are
// removed both targets must be written even if the client goes away.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	run, err := s.Generator.Run(context.WithoutCancel(r.Context()), s.Targets)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}
