package certs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_PlainHTTP(t *testing.T) {
	assert.Nil(t, New(false, nil).Check(context.Background(), "http://example.com"))
	assert.Nil(t, New(false, nil).Check(context.Background(), "::bad::"))
}

func TestCheck_Unreachable(t *testing.T) {
	cs := New(false, nil).Check(context.Background(), "https://127.0.0.1:1")
	require.NotNil(t, cs)
	assert.Equal(t, "unreachable", cs.Status)
}

func TestCheck_TLSServer(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	leaf := srv.Certificate()

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"valid", leaf.NotAfter.Add(-90 * 24 * time.Hour), "valid"},
		{"expiring", leaf.NotAfter.Add(-10 * 24 * time.Hour), "expiring"},
		{"expired", leaf.NotAfter.Add(time.Hour), "expired"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := tc.now
			cs := New(true, func() time.Time { return now }).Check(context.Background(), srv.URL)
			require.NotNil(t, cs)
			assert.Equal(t, tc.want, cs.Status)
			assert.NotEmpty(t, cs.NotAfter)
		})
	}
}
