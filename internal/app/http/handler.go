package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/wot-oss/resx/internal/app/http/server"
	"github.com/wot-oss/resx/internal/commands"
	"github.com/wot-oss/resx/internal/utils"
)

type ResxHandler struct {
	Service HandlerService
	Options ResxHandlerOptions
}

type ResxHandlerOptions struct {
	UrlContextRoot string
}

func NewResxHandler(handlerService HandlerService, options ResxHandlerOptions) *ResxHandler {
	return &ResxHandler{
		Service: handlerService,
		Options: options,
	}
}

// GetEntries returns the entries in document order, filtered by name patterns
// (GET /entries)
func (h *ResxHandler) GetEntries(w http.ResponseWriter, r *http.Request, params server.GetEntriesParams) {
	filter := commands.Filter{}
	if params.Include != nil {
		filter.Include = utils.ParseAsList(*params.Include, ",", true)
	}
	if params.Exclude != nil {
		filter.Exclude = utils.ParseAsList(*params.Exclude, ",", true)
	}

	entries, err := h.Service.ListEntries(r.Context(), filter, isSet(params.Metadata))
	if err != nil {
		HandleErrorResponse(w, r, err)
		return
	}

	data := make([]server.Entry, 0, len(entries))
	for _, e := range entries {
		data = append(data, h.toEntry(e))
	}
	HandleJsonResponse(w, r, http.StatusOK, server.EntriesResponse{
		Data: data,
		Meta: server.EntriesMeta{Total: len(data)},
	})
}

// GetEntry returns the description of an entry without its value
// (GET /entries/{name})
func (h *ResxHandler) GetEntry(w http.ResponseWriter, r *http.Request, name string, params server.GetEntryParams) {
	e, err := h.Service.GetEntry(r.Context(), name, isSet(params.Metadata))
	if err != nil {
		HandleErrorResponse(w, r, err)
		return
	}
	HandleJsonResponse(w, r, http.StatusOK, server.EntryResponse{Data: h.toEntry(*e)})
}

// GetEntryValue returns the rendered value of an entry with a content type matching its rendering
// (GET /entries/{name}/value)
func (h *ResxHandler) GetEntryValue(w http.ResponseWriter, r *http.Request, name string, params server.GetEntryValueParams) {
	v, err := h.Service.GetValue(r.Context(), name, isSet(params.Metadata))
	if err != nil {
		HandleErrorResponse(w, r, err)
		return
	}
	rendered, err := commands.Render(v.Value, v.Type)
	if err != nil {
		HandleErrorResponse(w, r, err)
		return
	}
	HandleByteResponse(w, r, http.StatusOK, rendered.MediaType, rendered.Data)
}

// SearchEntries runs a full text search over names, comments, type names and text values of the entries
// (GET /search)
func (h *ResxHandler) SearchEntries(w http.ResponseWriter, r *http.Request, params server.SearchEntriesParams) {
	hits, err := h.Service.SearchEntries(r.Context(), params.Q)
	if err != nil {
		HandleErrorResponse(w, r, err)
		return
	}
	data := make([]server.SearchHit, 0, len(hits))
	for _, hit := range hits {
		data = append(data, server.SearchHit{
			Name:     hit.Name,
			Metadata: hit.Metadata,
			Score:    hit.Score,
			Links:    h.links(hit.Name, hit.Metadata),
		})
	}
	HandleJsonResponse(w, r, http.StatusOK, server.SearchResponse{Data: data})
}

// GetHealth reports whether the served container can be read
// (GET /healthz)
func (h *ResxHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CheckHealth(r.Context()); err != nil {
		HandleErrorResponse(w, r, NewServiceUnavailableError(err, "container cannot be read"))
		return
	}
	HandleHealthyResponse(w, r)
}

func (h *ResxHandler) toEntry(e commands.EntryInfo) server.Entry {
	entry := server.Entry{
		Name:     e.Name,
		Type:     e.Type,
		Kind:     e.Kind,
		Metadata: e.Metadata,
		Position: server.Position{Line: e.Position.Line, Column: e.Position.Column},
		Links:    h.links(e.Name, e.Metadata),
	}
	if e.Comment != "" {
		entry.Comment = &e.Comment
	}
	if e.FileRef != "" {
		entry.FileRef = &e.FileRef
	}
	return entry
}

func (h *ResxHandler) links(name string, metadata bool) *server.EntryLinks {
	self := strings.TrimSuffix(h.Options.UrlContextRoot, "/") + "/entries/" + url.PathEscape(name)
	value := self + "/value"
	if metadata {
		self += "?metadata=true"
		value += "?metadata=true"
	}
	return &server.EntryLinks{Self: self, Value: value}
}

func isSet(b *bool) bool {
	return b != nil && *b
}
