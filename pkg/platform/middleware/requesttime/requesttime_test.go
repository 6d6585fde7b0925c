package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vcissuer/pkg/requestcontext"
)

func TestMiddlewareWithClock(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var first, second time.Time

	handler := MiddlewareWithClock(func() time.Time { return fixed })(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			first = requestcontext.Now(r.Context())
			time.Sleep(time.Millisecond)
			second = requestcontext.Now(r.Context())
		}),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, fixed, first)
	assert.Equal(t, first, second)
}
