package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/omniconv/pkg/codec"
	"github.com/ssargent/omniconv/pkg/convert"
	"github.com/ssargent/omniconv/pkg/document"
)

const sampleText = "ABC,METHOD1,7,2\r\n" +
	"S1,S2\r\n" +
	"1,5\r\n" +
	"2,6\r\n" +
	"12,8\r\n" +
	"3,7\r\n" +
	"4,8\r\n" +
	"1.0,4.0\r\n" +
	"2.0,5.0\r\n" +
	"3.0,\r\n"

func sampleBinary(t *testing.T) []byte {
	t.Helper()
	doc := &document.Document{
		Header: codec.FileHeader{InstrumentName: "ABC", MethodName: "METHOD1", Param: 7, SeriesCount: 2},
		Series: []codec.SeriesHeader{
			{Name: "S1", F0: 1, F1: 2, F2: 12, F3: 3, F4: 4},
			{Name: "S2", F0: 5, F1: 6, F2: 8, F3: 7, F4: 8},
		},
		Payloads: [][]float32{{1, 2, 3}, {4, 5}},
	}
	data, err := doc.MarshalBinary()
	require.NoError(t, err)
	return data
}

func setupTestServer(t *testing.T, config ServerConfig) (*Server, http.Handler) {
	t.Helper()
	server := NewServer(convert.New(convert.DefaultOptions()), config, nil)
	return server, server.Routes()
}

func doRequest(h http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestServer_handleHealth(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	w := doRequest(h, "GET", "/api/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", data["status"])
	assert.Contains(t, data, "uptime")
}

func TestServer_handleDecode(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	w := doRequest(h, "POST", "/api/v1/decode", sampleBinary(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, ContentTypeCSV, w.Header().Get("Content-Type"))
	assert.Equal(t, sampleText, w.Body.String())

	_, err := ksuid.Parse(w.Header().Get(runIDHeader))
	assert.NoError(t, err)
}

func TestServer_handleEncode(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	w := doRequest(h, "POST", "/api/v1/encode", []byte(sampleText), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, ContentTypeBinary, w.Header().Get("Content-Type"))
	assert.Equal(t, sampleBinary(t), w.Body.Bytes())
	assert.NotEmpty(t, w.Header().Get(runIDHeader))
}

func TestServer_handleInspect(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	w := doRequest(h, "POST", "/api/v1/inspect", sampleBinary(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(runIDHeader))

	var resp struct {
		Success bool             `json:"success"`
		Data    document.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ABC", resp.Data.InstrumentName)
	assert.Equal(t, 180, resp.Data.Bytes)
	require.Len(t, resp.Data.Series, 2)
	assert.Equal(t, "S2", resp.Data.Series[1].Name)
	assert.Equal(t, 2, resp.Data.Series[1].ElementCount)
}

func TestServer_ConversionErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body []byte
		kind string
	}{
		{
			name: "truncated binary",
			path: "/api/v1/decode",
			body: []byte("short"),
			kind: convert.KindTruncatedRecord,
		},
		{
			name: "truncated inspect",
			path: "/api/v1/inspect",
			body: nil,
			kind: convert.KindTruncatedRecord,
		},
		{
			name: "series count mismatch",
			path: "/api/v1/encode",
			body: []byte(strings.Replace(sampleText, "METHOD1,7,2", "METHOD1,7,3", 1)),
			kind: convert.KindSeriesCountMismatch,
		},
		{
			name: "bad cell",
			path: "/api/v1/encode",
			body: []byte(strings.Replace(sampleText, "2.0,5.0", "2.0,x", 1)),
			kind: convert.KindFieldType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := setupTestServer(t, ServerConfig{})

			w := doRequest(h, "POST", tt.path, tt.body, nil)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.RunID)
			assert.Equal(t, resp.RunID, w.Header().Get(runIDHeader))
		})
	}
}

func TestServer_FieldTypeLocation(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	w := doRequest(h, "POST", "/api/v1/encode", []byte(strings.Replace(sampleText, "2.0,5.0", "2.0,x", 1)), nil)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp.Error, "row 9, column 2")
}

func TestServer_BodyLimit(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{MaxBodyBytes: 100})

	w := doRequest(h, "POST", "/api/v1/decode", sampleBinary(t), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decodeResponse(t, w).Error, "100 bytes")
}

func TestServer_MethodNotAllowed(t *testing.T) {
	_, h := setupTestServer(t, ServerConfig{})

	w := doRequest(h, "GET", "/api/v1/decode", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
