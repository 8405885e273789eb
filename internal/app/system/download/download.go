// Package download writes generated files as browser downloads.
package download

import (
	"mime"
	"net/http"
	"strconv"
)

// Send writes content as an attachment named filename.
func Send(w http.ResponseWriter, filename, contentType string, content []byte) error {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(len(content)))
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(content)
	return err
}
