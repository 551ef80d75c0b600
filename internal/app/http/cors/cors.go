package cors

import (
	"net/http"
	"slices"

	"github.com/gorilla/handlers"
	httpresx "github.com/wot-oss/resx/internal/app/http"
)

// CORSOptions configures the cross-origin requests the API answers
type CORSOptions struct {
	allowedOrigins   []string
	allowedHeaders   []string
	allowCredentials bool
	maxAge           int
}

func (co *CORSOptions) AddAllowedOrigins(origins ...string) {
	for _, origin := range origins {
		if origin != "" && !slices.Contains(co.allowedOrigins, origin) {
			co.allowedOrigins = append(co.allowedOrigins, origin)
		}
	}
}

func (co *CORSOptions) AddAllowedHeaders(headers ...string) {
	for _, header := range headers {
		if header != "" && !slices.Contains(co.allowedHeaders, header) {
			co.allowedHeaders = append(co.allowedHeaders, header)
		}
	}
}

func (co *CORSOptions) AllowCredentials(allow bool) {
	co.allowCredentials = allow
}

func (co *CORSOptions) MaxAge(max int) {
	co.maxAge = max
}

// Protect wraps h with CORS handling for the read-only API: only GET, HEAD and OPTIONS are allowed, so preflights
// for any other method are rejected. Content-Type and Authorization are always among the allowed headers.
func Protect(h http.Handler, opts CORSOptions) http.Handler {
	// add supported default values to the CORS options
	opts.AddAllowedHeaders(httpresx.HeaderContentType, httpresx.HeaderAuthorization)

	// add CORS middleware to the http handler
	var corsOpts []handlers.CORSOption
	corsOpts = append(corsOpts, handlers.AllowedHeaders(opts.allowedHeaders))
	corsOpts = append(corsOpts, handlers.AllowedOrigins(opts.allowedOrigins))
	corsOpts = append(corsOpts, handlers.AllowedMethods([]string{
		http.MethodGet,
		http.MethodOptions,
		http.MethodHead}))

	if opts.allowCredentials {
		corsOpts = append(corsOpts, handlers.AllowCredentials())
	}
	if opts.maxAge > 0 {
		corsOpts = append(corsOpts, handlers.MaxAge(opts.maxAge))
	}

	return handlers.CORS(corsOpts...)(h)
}
