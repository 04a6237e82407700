package sink

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rzbill/nexmark/internal/config"
	"github.com/rzbill/nexmark/pkg/id"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

// objectPutter is the subset of *s3.Client the sink uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink stores each flushed frame as one object under prefix/run/.
// Object names are time-ordered frame ids, so a prefix listing returns
// frames in write order.
type S3Sink struct {
	*frameSink
	client objectPutter
	bucket string
	prefix string
	ids    *id.Generator
	seq    uint64
	log    logpkg.Logger
}

// NewS3 loads the default AWS configuration for cfg.Region. A custom
// endpoint switches to path-style addressing for MinIO and LocalStack.
func NewS3(ctx context.Context, cfg config.S3, run string, logger logpkg.Logger) (*S3Sink, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("sink: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3WithClient(ctx, client, cfg.Bucket, cfg.Prefix, run, logger), nil
}

func newS3WithClient(ctx context.Context, client objectPutter, bucket, prefix, run string, logger logpkg.Logger) *S3Sink {
	s := &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix + run + "/",
		ids:    id.NewGenerator(),
		log:    logger,
	}
	s.frameSink = newFrameSink(ctx, s.publish, nil)
	return s
}

func (s *S3Sink) publish(ctx context.Context, frame []byte) error {
	seq := s.seq + 1
	key := s.prefix + s.ids.Next().String() + ".frame"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(frame),
		ContentType: aws.String("application/octet-stream"),
		Metadata:    map[string]string{"seq": strconv.FormatUint(seq, 10)},
	})
	if err != nil {
		return fmt.Errorf("sink: s3 put %s: %w", key, err)
	}
	s.seq = seq
	s.log.Debug("frame stored", logpkg.Str("key", key), logpkg.Int("bytes", len(frame)))
	return nil
}
