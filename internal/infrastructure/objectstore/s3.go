package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"stockreport/internal/core/apperror"
	"stockreport/internal/domain/reports"
)

const (
	metaFileName  = "filename"
	metaCreatedAt = "created-at"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Presigner signs download links.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Config holds bucket settings.
type S3Config struct {
	Bucket  string
	Prefix  string
	Region  string
	Profile string // Primarily for dev purposes
	URLTTL  time.Duration
}

// S3 stores artifacts as objects and hands out presigned download links.
type S3 struct {
	client    S3API
	presigner Presigner
	cfg       S3Config
}

var _ reports.ArtifactStore = (*S3)(nil)

// NewS3 loads the default AWS credential chain and creates the store.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithSharedConfigProfile(cfg.Profile),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return NewS3WithClient(client, s3.NewPresignClient(client), cfg), nil
}

// NewS3WithClient creates the store over existing clients.
func NewS3WithClient(client S3API, presigner Presigner, cfg S3Config) *S3 {
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	return &S3{client: client, presigner: presigner, cfg: cfg}
}

func (s *S3) key(id string) string {
	return s.cfg.Prefix + id
}

// Put implements reports.ArtifactStore.
func (s *S3) Put(ctx context.Context, a *reports.Artifact) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.cfg.Bucket),
		Key:                aws.String(s.key(a.ID)),
		Body:               bytes.NewReader(a.Data),
		ContentLength:      aws.Int64(int64(len(a.Data))),
		ContentType:        aws.String(a.ContentType),
		ContentDisposition: aws.String(disposition(a.FileName)),
		Metadata: map[string]string{
			metaFileName:  a.FileName,
			metaCreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", s.key(a.ID), err)
	}
	return nil
}

// Get implements reports.ArtifactStore.
func (s *S3) Get(ctx context.Context, id string) (*reports.Artifact, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, apperror.NewNotFound("report", id)
		}
		return nil, fmt.Errorf("get object %s: %w", s.key(id), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", s.key(id), err)
	}

	a := &reports.Artifact{
		ID:          id,
		FileName:    out.Metadata[metaFileName],
		ContentType: aws.ToString(out.ContentType),
		Data:        data,
	}
	if ts, err := time.Parse(time.RFC3339, out.Metadata[metaCreatedAt]); err == nil {
		a.CreatedAt = ts
	}
	return a, nil
}

// URL implements reports.ArtifactStore.
func (s *S3) URL(ctx context.Context, a *reports.Artifact) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.cfg.Bucket),
		Key:                        aws.String(s.key(a.ID)),
		ResponseContentDisposition: aws.String(disposition(a.FileName)),
	}, s3.WithPresignExpires(s.cfg.URLTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", s.key(a.ID), err)
	}
	return req.URL, nil
}

func disposition(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
