package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/net/http2"

	"github.com/hoperedemption/imgfs/internal/config"
	"github.com/hoperedemption/imgfs/internal/imgfserr"
	"github.com/hoperedemption/imgfs/internal/logger"
)

// S3 fetches image objects from an S3 or S3-compatible bucket.
type S3 struct {
	client *s3.Client
	bucket string
}

// newHTTPClient builds the transport used for S3 connections, with
// connection pooling and HTTP/2 enabled.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warnf("[S3 Source] Failed to configure HTTP/2: %v", err)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}
}

// NewS3 builds an S3 source over bucket. With IMGFS_S3_ENDPOINT set, an
// S3-compatible endpoint with static credentials is used; otherwise the
// standard AWS configuration chain applies.
func NewS3(cfg *config.Config, bucket string) (*S3, error) {
	httpClient := newHTTPClient()

	var client *s3.Client
	if cfg.S3Endpoint != "" {
		logger.Infof("[S3 Source] Using S3-compatible endpoint %s, bucket %s", cfg.S3Endpoint, bucket)
		client = s3.New(s3.Options{
			Region:       cfg.AWSRegion,
			Credentials:  credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
			BaseEndpoint: aws.String(cfg.S3Endpoint),
			UsePathStyle: true,
			HTTPClient:   httpClient,
		})
	} else {
		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.AWSRegion),
			awsconfig.WithHTTPClient(httpClient),
		}
		if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: load AWS config: %v", imgfserr.ErrRuntime, err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3{client: client, bucket: bucket}, nil
}

func (s *S3) GetObject(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch s3://%s/%s: %v", imgfserr.ErrIO, s.bucket, key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read s3://%s/%s: %v", imgfserr.ErrIO, s.bucket, key, err)
	}

	logger.Debugf("[S3 Source] Fetched s3://%s/%s: %d bytes", s.bucket, key, len(data))
	return data, nil
}
