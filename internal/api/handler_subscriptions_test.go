package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionLifecycleOverHTTP(t *testing.T) {
	r, _ := setupHandler(t, "api_subs")
	endpoint := "https://push.example.com/sub/abc"

	w := doJSON(r, "PUT", "/subscriptions",
		`{"endpoint":"`+endpoint+`","p256dh":"key-material","auth":"secret"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "GET", "/subscriptions?endpoint="+url.QueryEscape(endpoint), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "key-material")

	w = doJSON(r, "DELETE", "/subscriptions", `{"endpoint":"`+endpoint+`"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, "GET", "/subscriptions?endpoint="+url.QueryEscape(endpoint), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutSubscriptionRejectsIncompleteKeys(t *testing.T) {
	r, _ := setupHandler(t, "api_subs_bad")

	w := doJSON(r, "PUT", "/subscriptions", `{"endpoint":"https://push.example.com/x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSubscriptionRequiresEndpoint(t *testing.T) {
	r, _ := setupHandler(t, "api_subs_noq")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/subscriptions", strings.NewReader(""))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
