package store

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/YuminosukeSato/pricefactor/config"
	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// S3Store keeps the blob as one object in an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	key    string
}

// NewS3Store creates a store for object name under cfg.Prefix. No request is
// made until Load or Save.
func NewS3Store(cfg config.S3Config, name string) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create s3 client for %s", cfg.Endpoint)
	}
	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		key:    path.Join(cfg.Prefix, path.Base(name)),
	}, nil
}

// Location implements Store.
func (s *S3Store) Location() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Load implements Store. The object is read completely before decoding, so
// transport failures stay distinguishable from a corrupt blob.
func (s *S3Store) Load(ctx context.Context) (*factor.State, error) {
	object, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translate(err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, s.translate(err)
	}
	return factor.LoadState(bytes.NewReader(data))
}

// Save implements Store.
func (s *S3Store) Save(ctx context.Context, state *factor.State) error {
	var buf bytes.Buffer
	if err := state.Save(&buf); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return errors.Wrapf(err, "upload %s", s.Location())
	}
	return nil
}

func (s *S3Store) translate(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return errors.Wrapf(fs.ErrNotExist, "%s: %v", s.Location(), err)
	}
	return errors.Wrapf(err, "download %s", s.Location())
}
