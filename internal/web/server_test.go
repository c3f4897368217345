package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/JonMunkholm/idcards/internal/config"
	"github.com/JonMunkholm/idcards/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterCSV = "UID,Name,Class,Roll Number\n" +
	"S1,Asha Rao,10-A,1\n" +
	"S1,Ravi Kumar,10-A,2\n" +
	"S2,Meera Das,10-B,1\n"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{RequestTimeout: 10 * time.Second},
		Upload:   config.UploadConfig{MaxFileSize: 1 << 20, MaxLogoSize: 64 << 10, MaxConcurrent: 2, MaxWaitTime: time.Second, Timeout: time.Second},
		Security: config.SecurityConfig{EnableCSP: true},
		School:   config.SchoolConfig{Name: "My High School", Address: "123 Education Lane", FilterField: "uid"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	svc := core.NewService(core.NewMemoryStore(), core.Options{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWaitTime:   cfg.Upload.MaxWaitTime,
		FilterField:   cfg.School.FilterField,
	})
	s := NewServer(svc, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

type filePart struct {
	field, name string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		fw.Write(f.data)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func postMultipart(t *testing.T, s *Server, path string, fields map[string]string, files ...filePart) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return do(s, req)
}

// importRoster uploads rosterCSV through the API and returns its id.
func importRoster(t *testing.T, s *Server) string {
	t.Helper()
	rec := postMultipart(t, s, "/api/rosters", nil, filePart{"file", "class.csv", []byte(rosterCSV)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sum core.RosterSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	return sum.ID
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestFormPage(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ID Card Generator")
	assert.Contains(t, rec.Body.String(), `value="My High School"`)
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "img-src 'self' data: https: http:")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestFormPage_ReloadRoster(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := importRoster(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/?roster="+id+"&target=S2", nil))

	assert.Contains(t, rec.Body.String(), "successfully loaded 3 records")
	assert.Contains(t, rec.Body.String(), `name="target" value="S2"`)
}

func TestUploadRoster(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := postMultipart(t, s, "/roster",
		map[string]string{"school_name": "Hill View", "school_address": ""},
		filePart{"file", "class.csv", []byte(rosterCSV)},
	)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "class.csv: successfully loaded 3 records.")
	assert.Contains(t, body, `name="target" value="S1"`)
	assert.Contains(t, body, `value="Hill View"`)
	assert.Contains(t, body, `name="school_address" value=""`)
}

func TestUploadRoster_Errors(t *testing.T) {
	s := newTestServer(t, testConfig())

	t.Run("no file", func(t *testing.T) {
		rec := postMultipart(t, s, "/roster", map[string]string{"school_name": "X"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "FILE004")
		assert.Contains(t, rec.Body.String(), "ID Card Generator")
	})

	t.Run("empty file", func(t *testing.T) {
		rec := postMultipart(t, s, "/roster", nil, filePart{"file", "a.csv", nil})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "FILE005")
	})

	t.Run("htmx gets fragment", func(t *testing.T) {
		body, ct := multipartBody(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/roster", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("HX-Request", "true")

		rec := do(s, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), `<div class="alert"`), rec.Body.String())
	})
}

func TestGenerateSheets(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := importRoster(t, s)

	rec := postMultipart(t, s, "/sheets",
		map[string]string{"roster_id": id, "target": " S1 ", "school_name": "hill view", "school_address": "1 Road"},
		filePart{"logo", "logo.png", pngBytes(t)},
	)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="sheet"`))
	assert.Equal(t, 2, strings.Count(body, `class="card"`))
	assert.Contains(t, body, "HILL VIEW")
	assert.Contains(t, body, "ASHA RAO")
	assert.NotContains(t, body, "MEERA DAS")
	assert.Contains(t, body, `src="data:image/png;base64,`)
	assert.Contains(t, body, "roster="+id)
}

func TestGenerateSheets_Errors(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := importRoster(t, s)

	tests := []struct {
		name     string
		fields   map[string]string
		files    []filePart
		wantCode int
		wantErr  string
	}{
		{"blank target", map[string]string{"roster_id": id, "target": "  "}, nil, http.StatusBadRequest, "FLT001"},
		{"no matches", map[string]string{"roster_id": id, "target": "S9"}, nil, http.StatusNotFound, "FLT002"},
		{"unknown roster", map[string]string{"roster_id": "nope", "target": "S1"}, nil, http.StatusNotFound, "RST001"},
		{"bad logo", map[string]string{"roster_id": id, "target": "S1"}, []filePart{{"logo", "logo.png", []byte("not an image")}}, http.StatusBadRequest, "IMG001"},
		{"logo over limit", map[string]string{"roster_id": id, "target": "S1"}, []filePart{{"logo", "logo.png", make([]byte, 100<<10)}}, http.StatusRequestEntityTooLarge, "IMG002"},
		{"logo over body limit", map[string]string{"roster_id": id, "target": "S1"}, []filePart{{"logo", "logo.png", make([]byte, 2<<20)}}, http.StatusRequestEntityTooLarge, "IMG002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postMultipart(t, s, "/sheets", tt.fields, tt.files...)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErr)
		})
	}
}

func TestAPI_Rosters(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := importRoster(t, s)

	t.Run("get", func(t *testing.T) {
		rec := do(s, httptest.NewRequest(http.MethodGet, "/api/rosters/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var sum core.RosterSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
		assert.Equal(t, 3, sum.RecordCount)
		assert.Equal(t, []string{"uid", "name", "class", "roll_number"}, sum.Headers)
		assert.Equal(t, "S1", sum.SuggestedFilter)
	})

	t.Run("unknown", func(t *testing.T) {
		rec := do(s, httptest.NewRequest(http.MethodGet, "/api/rosters/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "RST001", resp.Code)
	})

	t.Run("no file", func(t *testing.T) {
		rec := do(s, httptest.NewRequest(http.MethodPost, "/api/rosters", strings.NewReader("uid\n1\n")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "FILE004")
	})
}

func TestAPI_GenerateSheets(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := importRoster(t, s)

	body := fmt.Sprintf(`{"target":"10-A","field":"class","school":{"name":"Hill View","logo":%q}}`,
		base64.StdEncoding.EncodeToString(pngBytes(t)))

	req := httptest.NewRequest(http.MethodPost, "/api/rosters/"+id+"/sheets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var set core.SheetSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, 2, set.Matched)
	require.Len(t, set.Sheets, 1)
	assert.Equal(t, "RAVI KUMAR", set.Sheets[0].Cards[1].Name)
	assert.True(t, strings.HasPrefix(set.School.LogoURL, "data:image/png;base64,"))

	req = httptest.NewRequest(http.MethodPost, "/api/rosters/"+id+"/sheets?format=html", strings.NewReader(`{"target":"S2"}`))
	rec = do(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "MEERA DAS")
	assert.Contains(t, rec.Body.String(), strings.ToUpper(cards.DefaultSchoolName))
}

func TestAPI_GenerateSheets_BadBody(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := importRoster(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/rosters/"+id+"/sheets", strings.NewReader(`{"target":`))
	rec := do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/rosters/"+id+"/sheets", strings.NewReader(`{"target":"S1","school":{"logo":"!!!"}}`))
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "IMG001")

	huge := fmt.Sprintf(`{"target":"S1","school":{"logo":%q}}`, strings.Repeat("A", 2<<20))
	req = httptest.NewRequest(http.MethodPost, "/api/rosters/"+id+"/sheets", strings.NewReader(huge))
	rec = do(s, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "IMG002")
	assert.NotContains(t, rec.Body.String(), "FILE001")
}

func TestAPI_RequiresKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := newTestServer(t, cfg)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/rosters/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/rosters/x", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusNotFound, do(s, req).Code)

	// pages stay open
	assert.Equal(t, http.StatusOK, do(s, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	s := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	}
	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE001")
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string                   `json:"status"`
		Imports core.ImportLimiterStatus `json:"imports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Imports.MaxConcurrent)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("x: %w", core.ErrRosterNotFound), http.StatusNotFound},
		{core.ErrNoMatches, http.StatusNotFound},
		{core.ErrTooManyImports, http.StatusServiceUnavailable},
		{core.ErrNoFilterValue, http.StatusBadRequest},
		{cards.ErrInvalidLogo, http.StatusBadRequest},
		{errNoFile, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(1, 50*time.Millisecond)
	defer rl.stop()

	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.allow("1.1.1.1"))
}
