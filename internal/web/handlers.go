package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/JonMunkholm/idcards/internal/core"
	"github.com/JonMunkholm/idcards/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// formOverhead is headroom for multipart boundaries and text fields.
const formOverhead = 1 << 20

// handleForm renders the upload form. A roster query parameter reloads a
// previously imported roster, so "Back" from the preview keeps the file.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	data := s.defaultForm()

	if id := r.URL.Query().Get("roster"); id != "" {
		if sum, err := s.service.RosterSummary(r.Context(), id); err == nil {
			data = withSummary(data, sum)
			if t := r.URL.Query().Get("target"); t != "" {
				data.Target = t
			}
		}
	}

	render(w, r, http.StatusOK, templates.FormPage(data))
}

// handleUploadRoster imports the uploaded file and re-renders the form with
// the loaded record count and a suggested filter value.
func (s *Server) handleUploadRoster(w http.ResponseWriter, r *http.Request) {
	data := s.defaultForm()

	fileName, content, err := s.readUpload(w, r, "file", s.cfg.Upload.MaxFileSize)
	data = formSchool(data, r)
	if err != nil {
		s.respondFormError(w, r, data, err)
		return
	}

	sum, err := s.service.ImportRoster(WithRequestMetadata(r.Context(), r), fileName, content)
	if err != nil {
		s.respondFormError(w, r, data, err)
		return
	}

	render(w, r, http.StatusOK, templates.FormPage(withSummary(data, sum)))
}

// handleGenerateSheets renders the print preview for the submitted filter.
func (s *Server) handleGenerateSheets(w http.ResponseWriter, r *http.Request) {
	data := s.defaultForm()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxLogoSize+formOverhead)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxLogoSize + formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.respondFormError(w, r, data, logoLimitError(fmt.Errorf("read form: %w", err)))
		return
	}

	data = formSchool(data, r)
	data.RosterID = r.FormValue("roster_id")
	data.Target = r.FormValue("target")
	if f := strings.TrimSpace(r.FormValue("field")); f != "" {
		data.FilterField = f
	}
	if sum, err := s.service.RosterSummary(r.Context(), data.RosterID); err == nil {
		data.FileName = sum.FileName
		data.RecordCount = sum.RecordCount
		data.Warning = sum.Warning
	}

	school := cards.School{Name: data.SchoolName, Address: data.SchoolAddress}
	logo, err := s.readLogo(r)
	if err != nil {
		s.respondFormError(w, r, data, err)
		return
	}
	school.LogoURL = logo

	set, err := s.service.GenerateSheets(r.Context(), core.SheetRequest{
		RosterID: data.RosterID,
		Target:   data.Target,
		Field:    data.FilterField,
		School:   school,
	})
	if err != nil {
		s.respondFormError(w, r, data, err)
		return
	}

	back := "/?" + url.Values{"roster": {set.RosterID}, "target": {set.Target}}.Encode()
	render(w, r, http.StatusOK, templates.SheetPage(templates.SheetView{
		Title:   school.DisplayName() + " ID Cards",
		Matched: set.Matched,
		Sheets:  set.Sheets,
		BackURL: back,
	}))
}

// handleHealth reports liveness and import queue state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.ImportStatus(),
	})
}

// handleAPIImportRoster imports a multipart "file" and returns its summary.
func (s *Server) handleAPIImportRoster(w http.ResponseWriter, r *http.Request) {
	fileName, content, err := s.readUpload(w, r, "file", s.cfg.Upload.MaxFileSize)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	sum, err := s.service.ImportRoster(WithRequestMetadata(r.Context(), r), fileName, content)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, sum)
}

// handleAPIGetRoster returns a stored roster's summary.
func (s *Server) handleAPIGetRoster(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.RosterSummary(r.Context(), chi.URLParam(r, "rosterID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// sheetRequestBody is the JSON body for POST /api/rosters/{rosterID}/sheets.
type sheetRequestBody struct {
	Target string `json:"target"`
	Field  string `json:"field,omitempty"`
	School struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		LogoURL string `json:"logo_url,omitempty"`
		// Logo is a base64 encoded image, converted to a data: URL.
		Logo string `json:"logo,omitempty"`
	} `json:"school"`
}

// handleAPIGenerateSheets returns the sheet layout as JSON, or the print page
// when called with ?format=html.
func (s *Server) handleAPIGenerateSheets(w http.ResponseWriter, r *http.Request) {
	// base64 inflates the logo by a third
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxLogoSize*4/3+formOverhead)

	var body sheetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		err = logoLimitError(fmt.Errorf("decode request: %w", err))
		status := http.StatusBadRequest
		if errors.Is(err, cards.ErrLogoTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.respondError(w, r, err, status)
		return
	}

	school := cards.School{
		Name:    body.School.Name,
		Address: body.School.Address,
		LogoURL: body.School.LogoURL,
	}
	if body.School.Logo != "" {
		raw, err := base64.StdEncoding.DecodeString(body.School.Logo)
		if err != nil {
			err = fmt.Errorf("%w: %v", cards.ErrInvalidLogo, err)
			s.respondError(w, r, err, statusFor(err))
			return
		}
		if school.LogoURL, err = s.logoDataURL(raw); err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
	}

	set, err := s.service.GenerateSheets(r.Context(), core.SheetRequest{
		RosterID: chi.URLParam(r, "rosterID"),
		Target:   body.Target,
		Field:    body.Field,
		School:   school,
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	if r.URL.Query().Get("format") == "html" {
		render(w, r, http.StatusOK, templates.SheetPage(templates.SheetView{
			Title:   school.DisplayName() + " ID Cards",
			Matched: set.Matched,
			Sheets:  set.Sheets,
		}))
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// readUpload reads a single multipart file field, bounded by maxSize.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string, maxSize int64) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)
	if err := r.ParseMultipartForm(maxSize + formOverhead); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return "", nil, errNoFile
		}
		return "", nil, fmt.Errorf("read form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, errNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", nil, fmt.Errorf("%w: %d bytes", core.ErrFileTooLarge, header.Size)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, content, nil
}

// readLogo returns the optional "logo" form file as a data: URL.
func (s *Server) readLogo(r *http.Request) (string, error) {
	file, header, err := r.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", cards.ErrInvalidLogo, err)
	}
	defer file.Close()

	if header.Size == 0 {
		return "", nil
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	return s.logoDataURL(raw)
}

func (s *Server) logoDataURL(raw []byte) (string, error) {
	return cards.LogoDataURL(raw, s.cfg.Upload.MaxLogoSize)
}

// logoLimitError reports a body cut off by MaxBytesReader on the sheet
// routes as an oversize logo, the only large part those requests carry.
func logoLimitError(err error) error {
	var maxBytes *http.MaxBytesError
	if !errors.As(err, &maxBytes) {
		return err
	}
	return fmt.Errorf("%w: request exceeds %d bytes", cards.ErrLogoTooLarge, maxBytes.Limit)
}

// respondFormError re-renders the form with an alert for browser posts and
// falls back to respondError for HTMX and JSON clients.
func (s *Server) respondFormError(w http.ResponseWriter, r *http.Request, data templates.FormData, err error) {
	status := statusFor(err)
	if isHTMX(r) || wantsJSON(r) {
		s.respondError(w, r, err, status)
		return
	}

	msg := core.MapError(err)
	slog.Warn("form error",
		"path", r.URL.Path,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	data.Alert = templates.ErrorAlert(msg.Message, msg.Action, msg.Code)
	render(w, r, status, templates.FormPage(data))
}

func (s *Server) defaultForm() templates.FormData {
	return templates.FormData{
		SchoolName:    s.cfg.School.Name,
		SchoolAddress: s.cfg.School.Address,
		FilterField:   s.service.FilterField(),
	}
}

// formSchool copies submitted school fields over the defaults. A submitted
// empty value is kept so the card falls back to its placeholder text.
func formSchool(data templates.FormData, r *http.Request) templates.FormData {
	if r.Form == nil {
		return data
	}
	if _, ok := r.Form["school_name"]; ok {
		data.SchoolName = r.FormValue("school_name")
	}
	if _, ok := r.Form["school_address"]; ok {
		data.SchoolAddress = r.FormValue("school_address")
	}
	return data
}

func withSummary(data templates.FormData, sum *core.RosterSummary) templates.FormData {
	data.RosterID = sum.ID
	data.FileName = sum.FileName
	data.RecordCount = sum.RecordCount
	data.Warning = sum.Warning
	data.FilterField = sum.FilterField
	data.Target = sum.SuggestedFilter
	return data
}

// render writes an HTML component with the given status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "path", r.URL.Path, "error", err)
	}
}
