// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
	BackURL string
}

// ErrorLogger logs a failure and renders the matching error page.
type ErrorLogger struct {
	Log    *zap.Logger
	Render viewdata.RenderFunc
}

// NewErrorLogger constructs an ErrorLogger backed by the template engine.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger, Render: viewdata.Render}
}

// LogServerError logs err and shows a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs err at warn level and shows a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.render(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

// NotFound is the router's 404 handler.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request) {
	e.render(w, r, http.StatusNotFound, "Page not found", "The page you asked for does not exist.", "/login")
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(w, r, nil, title),
		Status:  status,
		Message: msg,
		BackURL: backURL,
	}
	w.WriteHeader(status)
	e.Render(w, r, "error_page", data)
}
