package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/domain/shared/errs"
)

func TestNewClient_RequiresEndpointAndBucket(t *testing.T) {
	_, err := NewClient(Options{Bucket: "photos"}, nil)
	assert.ErrorIs(t, err, ErrEndpointRequired)

	_, err = NewClient(Options{Endpoint: "localhost:9000"}, nil)
	assert.ErrorIs(t, err, ErrBucketRequired)
}

func TestClient_ObjectURL(t *testing.T) {
	c, err := NewClient(Options{Endpoint: "minio:9000", PublicEndpoint: "http://cdn.local/", Bucket: "photos"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/photos/hosts/h1/p1.jpg", c.objectURL("/hosts/h1/p1.jpg"))

	c, err = NewClient(Options{Endpoint: "minio:9000", Bucket: "photos", UseSSL: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://minio:9000/photos/a.png", c.objectURL("a.png"))
}

func TestClient_Upload_RejectsBeforeNetwork(t *testing.T) {
	c, err := NewClient(Options{Endpoint: "http://127.0.0.1:1", Bucket: "photos"}, nil)
	require.NoError(t, err)

	_, err = c.Upload(context.Background(), "hosts/h1/p.gif", strings.NewReader("gif"), "image/gif")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	_, err = c.Upload(context.Background(), " / ", strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrKeyRequired)
}
