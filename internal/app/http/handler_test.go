package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wot-oss/resx/internal/app/http/mocks"
	"github.com/wot-oss/resx/internal/app/http/server"
	"github.com/wot-oss/resx/internal/commands"
	"github.com/wot-oss/resx/internal/model"
	"github.com/wot-oss/resx/internal/testutils"
)

var unknownErr = errors.New("an unknown error")

func setupTestHttpHandler(hs HandlerService) http.Handler {
	handler := NewResxHandler(
		hs,
		ResxHandlerOptions{
			UrlContextRoot: "",
		})

	return NewHttpHandler(handler, nil)
}

var greeting = commands.EntryInfo{
	Name:     "Greeting",
	Type:     "System.String, mscorlib",
	Kind:     "record",
	Comment:  "shown on start",
	Position: model.Position{Line: 6, Column: 3},
}

func Test_healthz(t *testing.T) {
	route := "/healthz"

	hs := mocks.NewHandlerService(t)
	httpHandler := setupTestHttpHandler(hs)

	t.Run("with success", func(t *testing.T) {
		hs.On("CheckHealth", mock.Anything).Return(nil).Once()
		// when: calling the route
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		// then: it returns 204 status and empty body
		assertHealthyResponse204(t, rec)
	})

	t.Run("with error", func(t *testing.T) {
		hs.On("CheckHealth", mock.Anything).Return(unknownErr).Once()
		// when: calling the route
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		// then: it returns 503 status and json error as body
		assertErrorResponse(t, rec, route, http.StatusServiceUnavailable, error503Title)
	})
}

func Test_GetEntries(t *testing.T) {
	hs := mocks.NewHandlerService(t)
	httpHandler := setupTestHttpHandler(hs)

	t.Run("list all", func(t *testing.T) {
		route := "/entries"
		hs.On("ListEntries", mock.Anything, commands.Filter{}, false).Return([]commands.EntryInfo{greeting}, nil).Once()
		// when: calling the route
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		// then: it returns status 200 and the entries
		assertResponse200(t, rec)
		var resp server.EntriesResponse
		assertUnmarshalResponse(t, rec.Body.Bytes(), &resp)
		assert.Equal(t, 1, resp.Meta.Total)
		if assert.Len(t, resp.Data, 1) {
			e := resp.Data[0]
			assert.Equal(t, "Greeting", e.Name)
			assert.Equal(t, "shown on start", *e.Comment)
			assert.Nil(t, e.FileRef)
			assert.Equal(t, 6, e.Position.Line)
			assert.Equal(t, "/entries/Greeting", e.Links.Self)
			assert.Equal(t, "/entries/Greeting/value", e.Links.Value)
		}
	})

	t.Run("with filter and metadata", func(t *testing.T) {
		route := "/entries?include=Error.*,Gree*&exclude=Greeting&metadata=true"
		filter := commands.Filter{Include: []string{"Error.*", "Gree*"}, Exclude: []string{"Greeting"}}
		meta := commands.EntryInfo{Name: "Author", Kind: "record", Metadata: true}
		hs.On("ListEntries", mock.Anything, filter, true).Return([]commands.EntryInfo{meta}, nil).Once()
		// when: calling the route
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		// then: it returns status 200 and links to metadata entries say so
		assertResponse200(t, rec)
		var resp server.EntriesResponse
		assertUnmarshalResponse(t, rec.Body.Bytes(), &resp)
		if assert.Len(t, resp.Data, 1) {
			assert.Equal(t, "/entries/Author?metadata=true", resp.Data[0].Links.Self)
		}
	})

	t.Run("with invalid metadata parameter", func(t *testing.T) {
		route := "/entries?metadata=maybe"
		// when: calling the route
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		// then: it returns status 400
		assertErrorResponse(t, rec, route, http.StatusBadRequest, error400Title)
	})

	t.Run("with malformed container", func(t *testing.T) {
		route := "/entries"
		err := model.NewInvalidFormatError(model.Position{Line: 3, Column: 1}, "unexpected EOF")
		hs.On("ListEntries", mock.Anything, commands.Filter{}, false).Return(nil, err).Once()
		// when: calling the route
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		// then: it returns status 502
		assertErrorResponse(t, rec, route, http.StatusBadGateway, error502Title)
	})

	t.Run("with unknown error", func(t *testing.T) {
		route := "/entries"
		hs.On("ListEntries", mock.Anything, commands.Filter{}, false).Return(nil, unknownErr).Once()
		// when: calling the route
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		// then: it returns status 500 without details
		assertErrorResponse(t, rec, route, http.StatusInternalServerError, error500Title)
		var errResponse server.ErrorResponse
		assertUnmarshalResponse(t, rec.Body.Bytes(), &errResponse)
		assert.Equal(t, error500Detail, *errResponse.Detail)
	})
}

func Test_GetEntry(t *testing.T) {
	hs := mocks.NewHandlerService(t)
	httpHandler := setupTestHttpHandler(hs)

	t.Run("existing", func(t *testing.T) {
		route := "/entries/Greeting"
		hs.On("GetEntry", mock.Anything, "Greeting", false).Return(&greeting, nil).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertResponse200(t, rec)
		var resp server.EntryResponse
		assertUnmarshalResponse(t, rec.Body.Bytes(), &resp)
		assert.Equal(t, "Greeting", resp.Data.Name)
		assert.Equal(t, "record", resp.Data.Kind)
	})

	t.Run("escaped name", func(t *testing.T) {
		route := "/entries/Icons%2FApp"
		hs.On("GetEntry", mock.Anything, "Icons/App", false).Return(&commands.EntryInfo{Name: "Icons/App"}, nil).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertResponse200(t, rec)
		var resp server.EntryResponse
		assertUnmarshalResponse(t, rec.Body.Bytes(), &resp)
		assert.Equal(t, "/entries/Icons%2FApp", resp.Data.Links.Self)
	})

	t.Run("not found", func(t *testing.T) {
		route := "/entries/Nope"
		hs.On("GetEntry", mock.Anything, "Nope", false).Return(nil, model.ErrEntryNotFound).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertErrorResponse(t, rec, route, http.StatusNotFound, error404Title)
	})
}

func Test_GetEntryValue(t *testing.T) {
	hs := mocks.NewHandlerService(t)
	httpHandler := setupTestHttpHandler(hs)

	t.Run("text value", func(t *testing.T) {
		route := "/entries/Greeting/value"
		hs.On("GetValue", mock.Anything, "Greeting", false).Return(&commands.Value{EntryInfo: greeting, Value: "Hello World"}, nil).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, commands.MediaTypeText, rec.Header().Get(HeaderContentType))
		assert.Equal(t, "Hello World", rec.Body.String())
	})

	t.Run("binary metadata value", func(t *testing.T) {
		route := "/entries/Blob/value?metadata=true"
		hs.On("GetValue", mock.Anything, "Blob", true).Return(&commands.Value{Value: []byte{1, 2, 3}}, nil).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get(HeaderContentType))
		assert.Equal(t, []byte{1, 2, 3}, rec.Body.Bytes())
	})

	t.Run("conversion failure", func(t *testing.T) {
		route := "/entries/Broken/value"
		err := &model.ConversionError{TypeName: "System.Int32", Position: model.Position{Line: 13, Column: 3}, Err: unknownErr}
		hs.On("GetValue", mock.Anything, "Broken", false).Return(nil, err).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertErrorResponse(t, rec, route, http.StatusUnprocessableEntity, error422Title)
	})

	t.Run("type resolution failure", func(t *testing.T) {
		route := "/entries/Custom/value"
		err := &model.TypeResolutionError{TypeName: "Acme.Widget, Acme"}
		hs.On("GetValue", mock.Anything, "Custom", false).Return(nil, err).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertErrorResponse(t, rec, route, http.StatusUnprocessableEntity, error422Title)
	})
}

func Test_SearchEntries(t *testing.T) {
	hs := mocks.NewHandlerService(t)
	httpHandler := setupTestHttpHandler(hs)

	t.Run("with hits", func(t *testing.T) {
		route := "/search?q=hello"
		hs.On("SearchEntries", mock.Anything, "hello").Return([]commands.SearchHit{{Name: "Greeting", Score: 0.5}}, nil).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertResponse200(t, rec)
		var resp server.SearchResponse
		assertUnmarshalResponse(t, rec.Body.Bytes(), &resp)
		if assert.Len(t, resp.Data, 1) {
			assert.Equal(t, "Greeting", resp.Data[0].Name)
			assert.Equal(t, 0.5, resp.Data[0].Score)
		}
	})

	t.Run("with phrase query", func(t *testing.T) {
		q := `comment:"on start"`
		hs.On("SearchEntries", mock.Anything, q).Return([]commands.SearchHit{{Name: "Greeting", Score: 1.2}}, nil).Once()
		rec := testutils.NewRequest(http.MethodGet, "/search").WithQuery("q", q).RunOnHandler(httpHandler)
		assertResponse200(t, rec)
		var resp server.SearchResponse
		assertUnmarshalResponse(t, rec.Body.Bytes(), &resp)
		assert.Len(t, resp.Data, 1)
	})

	t.Run("without query", func(t *testing.T) {
		route := "/search"
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertErrorResponse(t, rec, route, http.StatusBadRequest, error400Title)
	})

	t.Run("with invalid query", func(t *testing.T) {
		route := "/search?q=name:"
		hs.On("SearchEntries", mock.Anything, "name:").Return(nil, commands.ErrInvalidArgs).Once()
		rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)
		assertErrorResponse(t, rec, route, http.StatusBadRequest, error400Title)
	})
}

func Test_NoRoute(t *testing.T) {
	route := "/nowhere"
	httpHandler := setupTestHttpHandler(mocks.NewHandlerService(t))

	rec := testutils.NewRequest(http.MethodGet, route).RunOnHandler(httpHandler)

	assertErrorResponse(t, rec, route, http.StatusNotFound, error404Title)
}

func assertHealthyResponse204(t *testing.T, rec *httptest.ResponseRecorder) {
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, NoCache, rec.Header().Get(HeaderCacheControl))
}

func assertResponse200(t *testing.T, rec *httptest.ResponseRecorder) {
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MimeJSON, rec.Header().Get(HeaderContentType))
}

func assertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, route string, status int, title string) {
	assert.Equal(t, status, rec.Code)
	var errResponse server.ErrorResponse
	assertUnmarshalResponse(t, rec.Body.Bytes(), &errResponse)
	assert.Equal(t, status, errResponse.Status)
	assert.Equal(t, route, *errResponse.Instance)
	assert.Equal(t, title, errResponse.Title)

	assert.Equal(t, MimeProblemJSON, rec.Header().Get(HeaderContentType))
	assert.Equal(t, NoSniff, rec.Header().Get(HeaderXContentTypeOptions))
}

func assertUnmarshalResponse(t *testing.T, data []byte, v any) {
	err := json.Unmarshal(data, v)
	assert.NoError(t, err, "error unmarshalling response")
}
