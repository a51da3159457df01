package api

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openclaw/qrgen/generator"
)

// maxRenderSize bounds the side length accepted by /qr/render.
const maxRenderSize = 2048

func (s *Server) handleTargetImage(w http.ResponseWriter, r *http.Request) {
	t, ok := s.findTarget(chi.URLParam(r, "target"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown target")
		return
	}

	path := filepath.Join(s.Generator.OutputDir(), t.Filename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "QR code not generated yet")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, path)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	url, err := generator.ValidateURL(q.Get("url"), "Requested")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	palette, err := s.Generator.Palette()
	if err != nil {
		palette = generator.Palette{Foreground: generator.RGB{}, Background: generator.RGB{R: 255, G: 255, B: 255}}
	}
	if v := q.Get("fg"); v != "" {
		if palette.Foreground, err = generator.ResolveColor(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if v := q.Get("bg"); v != "" {
		if palette.Background, err = generator.ResolveColor(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	size := 0
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 21 || n > maxRenderSize {
			writeError(w, http.StatusBadRequest, "size must be an integer between 21 and 2048")
			return
		}
		size = n
	}

	img, err := s.Generator.Render(url, palette, size)
	if err != nil {
		// Encoding only fails on content the symbol cannot hold.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := generator.WritePNG(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := indexTemplate.Execute(w, s.Targets); err != nil {
		s.Log.Error("render index page", "error", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR codes</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    flex-direction: column;
    align-items: center;
    gap: 24px;
    padding: 48px 16px;
    min-height: 100vh;
  }
  .grid { display: flex; flex-wrap: wrap; gap: 24px; justify-content: center; }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 32px;
    text-align: center;
    width: 340px;
  }
  h1 { font-size: 20px; font-weight: 600; }
  h2 { font-size: 16px; font-weight: 600; margin-bottom: 8px; }
  .url { color: #888; font-size: 12px; word-break: break-all; margin-bottom: 16px; }
  img { width: 260px; height: 260px; background: #fff; border-radius: 12px; }
  button {
    background: #4ade80; color: #0a0a0a; border: 0; border-radius: 8px;
    padding: 10px 20px; font-size: 14px; font-weight: 600; cursor: pointer;
  }
  #status { color: #888; font-size: 13px; }
</style>
</head>
<body>
<h1>QR codes</h1>
<div class="grid">
{{range .}}  <div class="card">
    <h2>{{.Label}}</h2>
    <p class="url">{{.URL}}</p>
    <img data-target="{{.Name}}" src="/qr/{{.Name}}" alt="{{.Label}} QR code">
  </div>
{{end}}</div>
<button id="regen">Regenerate</button>
<div id="status"></div>
<script>
(function() {
  var statusEl = document.getElementById('status');
  document.getElementById('regen').addEventListener('click', function() {
    statusEl.textContent = 'Generating...';
    fetch('/generate', { method: 'POST' })
      .then(function(r) { return r.json(); })
      .then(function(run) {
        var failed = (run.results || []).filter(function(r) { return r.error; });
        statusEl.textContent = failed.length ? failed.map(function(r) { return r.error; }).join('; ') : 'Done';
        document.querySelectorAll('img[data-target]').forEach(function(img) {
          img.src = '/qr/' + img.dataset.target + '?t=' + Date.now();
        });
      })
      .catch(function() { statusEl.textContent = 'Request failed'; });
  });
})();
</script>
</body>
</html>
`))
