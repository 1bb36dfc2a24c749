package objectstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/reports"
)

type object struct {
	data        []byte
	contentType string
	meta        map[string]string
}

type fakeS3 struct {
	objects map[string]object
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = object{
		data:        data,
		contentType: aws.ToString(in.ContentType),
		meta:        in.Metadata,
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	o, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(o.data)),
		ContentType: aws.String(o.contentType),
		Metadata:    o.meta,
	}, nil
}

type fakePresigner struct {
	expires time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{
		URL:    "https://" + aws.ToString(in.Bucket) + ".s3.local/" + aws.ToString(in.Key),
		Method: http.MethodGet,
	}, nil
}

func TestS3_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{objects: map[string]object{}}
	signer := &fakePresigner{}
	store := NewS3WithClient(client, signer, S3Config{Bucket: "reports", Prefix: "stock/", URLTTL: time.Hour})

	in := &reports.Artifact{
		ID:          "01J0000000000000000000000B",
		FileName:    "report.xlsx",
		ContentType: "application/octet-stream",
		Data:        []byte{1, 2, 3},
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Put(ctx, in))
	assert.Contains(t, client.objects, "reports/stock/01J0000000000000000000000B")

	out, err := store.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Data, out.Data)
	assert.Equal(t, "report.xlsx", out.FileName)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))

	link, err := store.URL(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, "https://reports.s3.local/stock/01J0000000000000000000000B", link)
	assert.Equal(t, time.Hour, signer.expires)
}

func TestS3_GetMissing(t *testing.T) {
	store := NewS3WithClient(&fakeS3{objects: map[string]object{}}, &fakePresigner{}, S3Config{Bucket: "b"})
	_, err := store.Get(context.Background(), "missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="Stock Movement Report.xlsx"`, disposition("Stock Movement Report.xlsx"))
}
