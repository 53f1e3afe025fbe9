package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/conneroisu/folio/internal/bundle"
	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/render"
	"github.com/conneroisu/folio/internal/theme"
)

const errorPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Preview unavailable</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; margin: 0; padding: 2rem; background: #f9fafb; color: #111827; }
    main { max-width: 720px; margin: 0 auto; }
    h1 { font-size: 1.5rem; }
    pre { background: #fef2f2; color: #991b1b; border: 1px solid #fca5a5; border-radius: 8px; padding: 1rem; white-space: pre-wrap; }
  </style>
</head>
<body>
  <main>
    <h1>Preview unavailable</h1>
    <p>Fix the data file and save it; this page reloads on its own.</p>
    <pre>%s</pre>
  </main>
  <script src="%s"></script>
</body>
</html>
`

// errorPage renders err as a standalone HTML page.
func errorPage(err error) string {
	return fmt.Sprintf(errorPageHTML, render.Escape(ferrors.FormatError(err)), ReloadPath)
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// currentOrUnavailable returns the latest good render or writes a 503 and returns nil.
func (s *PreviewServer) currentOrUnavailable(w http.ResponseWriter) *renderState {
	state, lastErr := s.snapshot()
	if state != nil {
		return state
	}
	if lastErr == nil {
		lastErr = errors.New("the data file has not been rendered yet")
	}
	http.Error(w, ferrors.FormatError(lastErr), http.StatusServiceUnavailable)
	return nil
}

func writeBody(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write([]byte(body))
}

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowRead(w, r) {
		return
	}

	state, lastErr := s.snapshot()
	if state == nil {
		if lastErr == nil {
			lastErr = errors.New("the data file has not been rendered yet")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(errorPage(lastErr)))
		return
	}

	w.Header().Set("X-Render-ID", state.ID)
	writeBody(w, "text/html; charset=utf-8", state.Page)
}

func (s *PreviewServer) handleReloadScript(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	script, err := assets.ReadFile("assets/reload.js")
	if err != nil {
		http.Error(w, "reload script missing", http.StatusInternalServerError)
		return
	}
	writeBody(w, "application/javascript; charset=utf-8", string(script))
}

func (s *PreviewServer) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	if state := s.currentOrUnavailable(w); state != nil {
		writeBody(w, "text/html; charset=utf-8", state.Bundle.HTML)
	}
}

func (s *PreviewServer) handleExportCSS(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	if state := s.currentOrUnavailable(w); state != nil {
		writeBody(w, "text/css; charset=utf-8", state.Bundle.CSS)
	}
}

func (s *PreviewServer) handleExportReadme(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	if state := s.currentOrUnavailable(w); state != nil {
		writeBody(w, "text/markdown; charset=utf-8", state.Bundle.Readme)
	}
}

func (s *PreviewServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	state := s.currentOrUnavailable(w)
	if state == nil {
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, state.Bundle.ArchiveName))
	w.Header().Set("Cache-Control", "no-store")
	if err := bundle.WriteZip(w, state.Bundle, state.RenderedAt); err != nil {
		s.logger.Error(r.Context(), err, "Failed to stream archive", "render_id", state.ID)
	}
}

type themeInfo struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Current bool           `json:"current"`
	Light   theme.TokenSet `json:"light"`
	Dark    theme.TokenSet `json:"dark"`
}

func (s *PreviewServer) handleThemes(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	var currentTheme string
	if state, _ := s.snapshot(); state != nil {
		currentTheme = state.Bundle.Theme
	}

	themes := theme.All()
	response := make([]themeInfo, 0, len(themes))
	for _, t := range themes {
		response = append(response, themeInfo{
			ID:      t.ID,
			Name:    t.Name,
			Current: t.ID == currentTheme,
			Light:   t.Light,
			Dark:    t.Dark,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

type statusResponse struct {
	Status     string               `json:"status"`
	DataFile   string               `json:"data_file"`
	RenderID   string               `json:"render_id,omitempty"`
	RenderedAt *time.Time           `json:"rendered_at,omitempty"`
	Theme      string               `json:"theme,omitempty"`
	FullName   string               `json:"full_name,omitempty"`
	Error      string               `json:"error,omitempty"`
	Problems   []ferrors.FieldError `json:"problems,omitempty"`
	Clients    int                  `json:"clients"`
	Timestamp  int64                `json:"timestamp"`
}

func (s *PreviewServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	state, lastErr := s.snapshot()
	response := statusResponse{
		Status:    "ok",
		DataFile:  s.dataFile,
		Clients:   s.ClientCount(),
		Timestamp: s.now().Unix(),
	}

	if state != nil {
		renderedAt := state.RenderedAt
		response.RenderID = state.ID
		response.RenderedAt = &renderedAt
		response.Theme = state.Bundle.Theme
		response.FullName = state.Data.FullName
	}

	if lastErr != nil {
		response.Status = "error"
		response.Error = ferrors.FormatError(lastErr)
		var problems ferrors.FieldErrors
		if errors.As(lastErr, &problems) {
			response.Problems = problems
		}
	} else if state == nil {
		response.Status = "pending"
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
