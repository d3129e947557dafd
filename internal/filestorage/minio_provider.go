package filestorage

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	consts "github.com/proofmark/proofmark/internal/config"
)

func NewMinIOStorage(bucket, filesPath, endpoint, accessKeyID, secretAccessKey string) *MinIOStorage {
	m, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: true,
	})
	if err != nil {
		panic(err)
	}
	return &MinIOStorage{
		client:    m,
		bucket:    bucket,
		filesPath: filesPath,
	}
}

type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	filesPath string
}

func (f *MinIOStorage) Put(ctx context.Context, path string, r io.Reader, size int64) error {
	_, err := f.client.PutObject(ctx, f.bucket, f.filesPath+"/"+path, r, size, minio.PutObjectOptions{})
	return err
}

func (f *MinIOStorage) GetPresignedURL(ctx context.Context, path string) (string, error) {
	u, err := f.client.PresignedGetObject(ctx, f.bucket, f.filesPath+"/"+path, time.Minute*consts.PRESIGN_URL_EXPIRE_MINUTES, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
