package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDate("10/03/2026")
	assert.Error(t, err)
}

func TestToDateStringPtr(t *testing.T) {
	assert.Nil(t, toDateStringPtr(nil))

	d := time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)
	got := toDateStringPtr(&d)
	require.NotNil(t, got)
	assert.Equal(t, "2026-03-10", *got)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, 201, map[string]string{"status": "created"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "created", body["status"])
}

func TestDecodeValid(t *testing.T) {
	type payload struct {
		Title string `json:"title" validate:"required,min=1,max=200"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"Read more"}`))
	var p payload
	require.NoError(t, decodeValid(req, &p))
	assert.Equal(t, "Read more", p.Title)

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"title":""}`))
	assert.Error(t, decodeValid(req, &payload{}), "validation tags run after decode")

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	assert.Error(t, decodeValid(req, &payload{}))
}
