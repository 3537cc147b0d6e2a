package static

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

// NewOsFs roots a read-only filesystem at dir.
func NewOsFs(dir string) afero.Fs {
	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Handler serves files from fs for any request no API route claimed.
// Directories resolve to their index.html; missing files are 404.
func Handler(fs afero.Fs) gin.HandlerFunc {
	fileServer := http.FileServer(afero.NewHttpFs(fs).Dir("/"))

	return func(c *gin.Context) {
		// NoRoute handlers run with a preset 404; let the file server decide.
		c.Status(http.StatusOK)
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
