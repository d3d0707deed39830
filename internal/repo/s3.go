package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tacogips/binst/internal/credential"
	"github.com/tacogips/binst/internal/debug"
)

// endpointRegion is used when only a custom endpoint is configured.
const endpointRegion = "us-east-1"

// S3Client is the subset of the S3 API the repository needs. The upload
// methods come from manager.UploadAPIClient so archives can stream through
// the multipart uploader.
type S3Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ClientFactory builds a client for one S3 location.
type S3ClientFactory func(ctx context.Context, loc S3Location) (S3Client, error)

// DefaultS3ClientFactory resolves credentials through the credential chain
// and builds an SDK client from them.
func DefaultS3ClientFactory(ctx context.Context, loc S3Location) (S3Client, error) {
	creds, err := credential.Resolve(loc.Profile)
	if err != nil {
		return nil, err
	}
	return NewS3Client(creds), nil
}

// NewS3Client builds an S3 client from static credentials.
func NewS3Client(creds credential.Credentials) *s3.Client {
	region := creds.Region
	if region == "" {
		region = endpointRegion
	}

	opts := s3.Options{
		Region:                     region,
		Credentials:                credentials.NewStaticCredentialsProvider(creds.KeyID, creds.KeySecret, ""),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}
	if creds.Endpoint != "" {
		opts.BaseEndpoint = aws.String(creds.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func (t *Transport) s3Client(ctx context.Context, d Descriptor) (S3Client, error) {
	factory := t.NewS3Client
	if factory == nil {
		factory = DefaultS3ClientFactory
	}
	client, err := factory(ctx, d.S3)
	if err != nil {
		return nil, NewTransportError(d.Raw(), "credentials", err)
	}
	return client, nil
}

func (t *Transport) getS3(ctx context.Context, d Descriptor, key string) (*s3.GetObjectOutput, string, error) {
	client, err := t.s3Client(ctx, d)
	if err != nil {
		return nil, "", err
	}

	fullKey := fullS3Key(d.S3, key)
	url := ResolveURL(d, key)
	debug.Debug("[repo] GetObject bucket=%s key=%s", d.S3.Bucket, fullKey)

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.S3.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		return nil, url, classifyS3(url, err)
	}
	return out, url, nil
}

func (t *Transport) downloadS3(ctx context.Context, d Descriptor, key, dest string) (string, error) {
	out, url, err := t.getS3(ctx, d, key)
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	if err := t.writeStream(out.Body, aws.ToInt64(out.ContentLength), dest); err != nil {
		return "", NewTransportError(url, "copy", err)
	}
	return url, nil
}

func (t *Transport) readS3(ctx context.Context, d Descriptor, key string) (string, error) {
	out, url, err := t.getS3(ctx, d, key)
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	return readLimited(url, out.Body, maxTextSize)
}

func (t *Transport) uploadS3File(ctx context.Context, d Descriptor, key, localPath string) (string, error) {
	client, err := t.s3Client(ctx, d)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", classifyLocal(localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", NewTransportError(localPath, "stat", err)
	}

	fullKey := fullS3Key(d.S3, key)
	url := ResolveURL(d, key)
	debug.Debug("[repo] Upload bucket=%s key=%s size=%d", d.S3.Bucket, fullKey, info.Size())

	body, finish := t.progress(f, info.Size())
	defer finish()

	uploader := manager.NewUploader(client)
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.S3.Bucket),
		Key:         aws.String(fullKey),
		Body:        body,
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		return "", classifyS3(url, err)
	}
	return url, nil
}

func (t *Transport) uploadS3Text(ctx context.Context, d Descriptor, key, content string) (string, error) {
	client, err := t.s3Client(ctx, d)
	if err != nil {
		return "", err
	}

	fullKey := fullS3Key(d.S3, key)
	url := ResolveURL(d, key)
	debug.Debug("[repo] PutObject bucket=%s key=%s", d.S3.Bucket, fullKey)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.S3.Bucket),
		Key:         aws.String(fullKey),
		Body:        strings.NewReader(content),
		ContentType: aws.String("application/toml"),
	})
	if err != nil {
		return "", classifyS3(url, err)
	}
	return url, nil
}

// classifyS3 maps NoSuchKey, a "NotFound" code or an http 404 to NotFound and
// everything else to Transport carrying the provider code.
func classifyS3(url string, err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return NewNotFoundError(url, err)
	}

	code := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
		if code == "NoSuchKey" || code == "NotFound" {
			return NewNotFoundError(url, err)
		}
	}

	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		if statusErr.HTTPStatusCode() == 404 {
			return NewNotFoundError(url, err)
		}
		if code == "" {
			code = fmt.Sprintf("http %d", statusErr.HTTPStatusCode())
		}
	}

	if code == "" {
		code = "s3"
	}
	return NewTransportError(url, code, err)
}
