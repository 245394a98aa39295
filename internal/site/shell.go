package site

import (
	"io/fs"
	"net/http"
	"os"
)

// Shell serves index.html for page routes and static files from /assets/.
type Shell struct {
	fsys fs.FS
}

func NewShell(dir string) *Shell {
	return &Shell{fsys: os.DirFS(dir)}
}

func NewShellFS(fsys fs.FS) *Shell {
	return &Shell{fsys: fsys}
}

// ServePage writes the SPA entry document. The client router takes over from there.
func (s *Shell) ServePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, s.fsys, "index.html")
}

// Assets serves the bundle's static files; mount it under /assets/ with the
// prefix stripped.
func (s *Shell) Assets() http.Handler {
	sub, err := fs.Sub(s.fsys, "assets")
	if err != nil {
		return http.NotFoundHandler()
	}

	return http.FileServerFS(sub)
}
