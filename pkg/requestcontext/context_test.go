package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vcissuer/pkg/domain"
)

func TestCallerDefaultsToAnonymous(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, domain.AnonymousPrincipal, Caller(ctx))

	ctx = WithCaller(ctx, "user-1")
	assert.Equal(t, domain.Principal("user-1"), Caller(ctx))
}

func TestNowPrefersInjectedTime(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), fixed)
	assert.Equal(t, fixed, Now(ctx))

	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}
