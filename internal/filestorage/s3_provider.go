package filestorage

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	consts "github.com/proofmark/proofmark/internal/config"
)

type FileStorage struct {
	client    *s3.Client
	bucket    string
	filesPath string
}

func New(bucket string, filesPath string) *FileStorage {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	return &FileStorage{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		filesPath: filesPath,
	}
}

func (f *FileStorage) Put(ctx context.Context, p string, r io.Reader, size int64) error {
	key := path.Join(f.filesPath, p)
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
		Body:   r,
	})
	return err
}

func (f *FileStorage) GetPresignedURL(ctx context.Context, p string) (string, error) {
	var (
		key           = path.Join(f.filesPath, p)
		presignClient = s3.NewPresignClient(f.client)
	)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Minute * consts.PRESIGN_URL_EXPIRE_MINUTES
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
