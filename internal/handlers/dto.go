package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"journalmate/internal/middleware"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeValid decodes the request body and runs struct validation tags.
func decodeValid(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid body")
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func toDateString(t time.Time) string {
	return t.Format(dateLayout)
}

func toDateStringPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func userIDFrom(r *http.Request) int {
	id, _ := middleware.UserID(r.Context())
	return id
}
