package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/logger"
	"orderdesk-backend/pkg/utils"
)

const dateOnly = "2006-01-02"

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindIllegalTransition, domain.KindVendorNotAllotted,
		domain.KindInvalidSelection, domain.KindExplanationRequired:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeError maps workflow errors to their status. Anything untyped is a 500
// and its message stays in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		utils.WriteKindError(w, statusForKind(de.Kind), string(de.Kind), de.Message)
		return
	}
	logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request Failed")
	utils.WriteError(w, http.StatusInternalServerError, "internal error")
}

func writeBadRequest(w http.ResponseWriter, message string) {
	utils.WriteKindError(w, http.StatusBadRequest, string(domain.KindValidation), message)
}

// decode reads a JSON body. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := utils.DecodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "Invalid input: "+err.Error())
		return false
	}
	return true
}

// writeRecord answers with the record and its version as ETag.
func writeRecord(w http.ResponseWriter, status int, rec domain.Record) {
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(rec.RecordVersion(), 10)))
	utils.WriteJSON(w, status, rec)
}

// mutationContext carries If-Match into the usecase. Accepted forms: 3, "3", W/"3".
func mutationContext(r *http.Request) (context.Context, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return r.Context(), nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return nil, domain.Errorf(domain.KindValidation, "If-Match must be a record version, got %q", r.Header.Get("If-Match"))
	}
	return domain.WithExpectedVersion(r.Context(), v), nil
}

// parseFilter reads ?status=&type=&from=&to=. Bounds take RFC 3339 or a bare
// date; a bare "to" date covers that whole day.
func parseFilter(r *http.Request, tab domain.Tab) (usecase.Filter, error) {
	q := r.URL.Query()
	f := usecase.Filter{
		Tab:       tab,
		Status:    q.Get("status"),
		OrderType: utils.FirstNonEmpty(q.Get("type"), q.Get("orderType")),
	}
	var err error
	if f.From, err = parseBound(q.Get("from"), false); err != nil {
		return f, err
	}
	if f.To, err = parseBound(q.Get("to"), true); err != nil {
		return f, err
	}
	return f, nil
}

func parseBound(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, domain.Errorf(domain.KindValidation, "invalid date %q, want YYYY-MM-DD or RFC 3339", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
