package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wot-oss/resx/internal/app/http/server"
)

// NewHttpHandler routes the API to si. Entry names are matched in their escaped form so that names
// containing slashes can be addressed.
func NewHttpHandler(si server.ServerInterface, mws []server.MiddlewareFunc) http.Handler {
	r := mux.NewRouter()
	r.UseEncodedPath()
	r.NotFoundHandler = http.HandlerFunc(handleNoRoute)
	options := server.GorillaServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: HandleErrorResponse,
		Middlewares:      mws,
	}
	return server.HandlerWithOptions(si, options)
}

func handleNoRoute(w http.ResponseWriter, r *http.Request) {
	HandleErrorResponse(w, r, NewNotFoundError(nil, "Path not handled by resx server"))
}
