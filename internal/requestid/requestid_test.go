package requestid_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-luo/go-chem/internal/requestid"
)

func TestNewReturnsValidUUID(t *testing.T) {
	id := requestid.New()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestNewIsUnique(t *testing.T) {
	assert.NotEqual(t, requestid.New(), requestid.New())
}

func TestContextRoundTrip(t *testing.T) {
	id := requestid.New()
	ctx := requestid.WithContext(context.Background(), id)
	assert.Equal(t, id, requestid.FromContext(ctx))
}

func TestFromContextEmptyWhenUnset(t *testing.T) {
	assert.Equal(t, "", requestid.FromContext(context.Background()))
}

func TestFieldCarriesKey(t *testing.T) {
	f := requestid.Field("abc-123")
	assert.Equal(t, "request_id", f.Key)
	assert.Equal(t, "abc-123", f.String)
}
