package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContextDefaults(t *testing.T) {
	assert.Equal(t, Default, FromContext(context.Background()))
	assert.Equal(t, Default, FromContext(WithID(context.Background(), "  ")))
	assert.Equal(t, Default, FromContext(WithID(context.Background(), "bad/id")))
}

func TestFromContextRoundTrip(t *testing.T) {
	ctx := WithID(context.Background(), " 7f3c-profile ")
	assert.Equal(t, "7f3c-profile", FromContext(ctx))
}
