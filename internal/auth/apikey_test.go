package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok")) //nolint:errcheck
})

func call(mw func(http.Handler) http.Handler, header, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if key != "" {
		req.Header.Set(header, key)
	}
	rec := httptest.NewRecorder()
	mw(ok).ServeHTTP(rec, req)
	return rec
}

func TestAPIKey(t *testing.T) {
	cases := []struct {
		name   string
		mode   string
		key    string
		header string
		sent   string
		want   int
	}{
		{"mode none passes", "none", "secret", "x-api-key", "", http.StatusOK},
		{"unconfigured key passes", "apikey", "", "x-api-key", "", http.StatusOK},
		{"correct key", "apikey", "secret", "x-api-key", "secret", http.StatusOK},
		{"missing key", "apikey", "secret", "x-api-key", "", http.StatusUnauthorized},
		{"wrong key", "apikey", "secret", "x-api-key", "nope", http.StatusUnauthorized},
		{"custom header", "apikey", "secret", "authorization", "secret", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := call(APIKey(tc.mode, tc.header, tc.key), tc.header, tc.sent)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAPIKey_HeaderIsCaseInsensitive(t *testing.T) {
	mw := APIKey("apikey", "x-api-key", "secret")
	rec := call(mw, "X-Api-Key", "secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}
