// Package server contains the routing and parameter binding of the HTTP API, in the layout oapi-codegen
// produces for gorilla/mux servers.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List the entries of the container
	// (GET /entries)
	GetEntries(w http.ResponseWriter, r *http.Request, params GetEntriesParams)
	// Get the description of an entry
	// (GET /entries/{name})
	GetEntry(w http.ResponseWriter, r *http.Request, name string, params GetEntryParams)
	// Get the rendered value of an entry
	// (GET /entries/{name}/value)
	GetEntryValue(w http.ResponseWriter, r *http.Request, name string, params GetEntryValueParams)
	// Full text search over the entries
	// (GET /search)
	SearchEntries(w http.ResponseWriter, r *http.Request, params SearchEntriesParams)
	// Health check
	// (GET /healthz)
	GetHealth(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

func (siw *ServerInterfaceWrapper) withScopes(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), BearerAuthScopes, []string{})
	return r.WithContext(ctx)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, handler http.Handler) {
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindMetadata(w http.ResponseWriter, r *http.Request, dest **bool) bool {
	err := runtime.BindQueryParameter("form", true, false, "metadata", r.URL.Query(), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "metadata", Err: err})
		return false
	}
	return true
}

func (siw *ServerInterfaceWrapper) bindName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", mux.Vars(r)["name"], &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return "", false
	}
	return name, true
}

// GetEntries operation middleware
func (siw *ServerInterfaceWrapper) GetEntries(w http.ResponseWriter, r *http.Request) {
	r = siw.withScopes(r)

	var params GetEntriesParams

	err := runtime.BindQueryParameter("form", true, false, "include", r.URL.Query(), &params.Include)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "include", Err: err})
		return
	}
	err = runtime.BindQueryParameter("form", true, false, "exclude", r.URL.Query(), &params.Exclude)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "exclude", Err: err})
		return
	}
	if !siw.bindMetadata(w, r, &params.Metadata) {
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetEntries(w, r, params)
	}))
}

// GetEntry operation middleware
func (siw *ServerInterfaceWrapper) GetEntry(w http.ResponseWriter, r *http.Request) {
	name, ok := siw.bindName(w, r)
	if !ok {
		return
	}
	r = siw.withScopes(r)

	var params GetEntryParams
	if !siw.bindMetadata(w, r, &params.Metadata) {
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetEntry(w, r, name, params)
	}))
}

// GetEntryValue operation middleware
func (siw *ServerInterfaceWrapper) GetEntryValue(w http.ResponseWriter, r *http.Request) {
	name, ok := siw.bindName(w, r)
	if !ok {
		return
	}
	r = siw.withScopes(r)

	var params GetEntryValueParams
	if !siw.bindMetadata(w, r, &params.Metadata) {
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetEntryValue(w, r, name, params)
	}))
}

// SearchEntries operation middleware
func (siw *ServerInterfaceWrapper) SearchEntries(w http.ResponseWriter, r *http.Request) {
	r = siw.withScopes(r)

	var params SearchEntriesParams

	if paramValue := r.URL.Query().Get("q"); paramValue == "" {
		siw.ErrorHandlerFunc(w, r, &RequiredParamError{ParamName: "q"})
		return
	}
	err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &params.Q)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchEntries(w, r, params)
	}))
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetHealth(w, r)
	}))
}

type UnescapedCookieParamError struct {
	ParamName string
	Err       error
}

func (e *UnescapedCookieParamError) Error() string {
	return fmt.Sprintf("error unescaping cookie parameter '%s'", e.ParamName)
}

func (e *UnescapedCookieParamError) Unwrap() error {
	return e.Err
}

type UnmarshalingParamError struct {
	ParamName string
	Err       error
}

func (e *UnmarshalingParamError) Error() string {
	return fmt.Sprintf("Error unmarshaling parameter %s as JSON: %s", e.ParamName, e.Err.Error())
}

func (e *UnmarshalingParamError) Unwrap() error {
	return e.Err
}

type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("Query argument %s is required, but not found", e.ParamName)
}

type RequiredHeaderError struct {
	ParamName string
	Err       error
}

func (e *RequiredHeaderError) Error() string {
	return fmt.Sprintf("Header parameter %s is required, but not found", e.ParamName)
}

func (e *RequiredHeaderError) Unwrap() error {
	return e.Err
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type TooManyValuesForParamError struct {
	ParamName string
	Count     int
}

func (e *TooManyValuesForParamError) Error() string {
	return fmt.Sprintf("Expected one value for %s, got %d", e.ParamName, e.Count)
}

type GorillaServerOptions struct {
	BaseURL          string
	BaseRouter       *mux.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options GorillaServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = mux.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.HandleFunc(options.BaseURL+"/entries", wrapper.GetEntries).Methods("GET")

	r.HandleFunc(options.BaseURL+"/entries/{name}", wrapper.GetEntry).Methods("GET")

	r.HandleFunc(options.BaseURL+"/entries/{name}/value", wrapper.GetEntryValue).Methods("GET")

	r.HandleFunc(options.BaseURL+"/search", wrapper.SearchEntries).Methods("GET")

	r.HandleFunc(options.BaseURL+"/healthz", wrapper.GetHealth).Methods("GET")

	return r
}
