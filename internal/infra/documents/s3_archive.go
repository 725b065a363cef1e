package documents

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool
}

// S3Archive guarda cópias dos PDFs gerados. Endpoint permite MinIO.
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Archive(cfg S3Config) *S3Archive {
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &S3Archive{
		client: s3.New(opts),
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}
}

func (a *S3Archive) key(jobCardID uint, name string) string {
	k := fmt.Sprintf("jobcards/%d/%s-%s", jobCardID, uuid.NewString(), name)
	if a.prefix == "" {
		return k
	}
	return a.prefix + "/" + k
}

func (a *S3Archive) Put(ctx context.Context, jobCardID uint, doc *document.Document) (string, error) {
	key := a.key(jobCardID, doc.Name)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(doc.Content),
		ContentType: aws.String(doc.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return key, nil
}

var _ document.Archive = (*S3Archive)(nil)
