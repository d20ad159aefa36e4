package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var allowedImageTypes = map[string]struct{}{
	"jpg": {},
	"png": {},
}

type MediaService interface {
	Upload(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.MediaAsset, error)
	ListAssets(ctx context.Context, userID int64) ([]*models.MediaAsset, error)
	RemoveAsset(ctx context.Context, userID, assetID int64) error
}

// ObjectStorage is the bucket capability media assets live behind.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, file []byte, contentType string) error
	Remove(ctx context.Context, key string) error
}

type mediaService struct {
	cfg config.Config
	r2  ObjectStorage
	ma  repository.MediaAssetRepository
}

func NewMediaService(cfg config.Config, r2 ObjectStorage, ma repository.MediaAssetRepository) MediaService {
	return &mediaService{
		cfg: cfg,
		r2:  r2,
		ma:  ma,
	}
}

func (s *mediaService) Upload(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.MediaAsset, error) {
	file, err := fh.Open()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return nil, errors.New("unsupported file type")
	}
	if _, ok := allowedImageTypes[fileType.Extension]; !ok {
		return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	key = fmt.Sprintf("%s.%s", key, fileType.Extension)

	err = s.r2.Upload(ctx, key, fileBytes, fileType.MIME.Value)
	if err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	asset := &models.MediaAsset{
		UserID:   userID,
		FileName: key,
		FileType: fileType.MIME.Value,
		FileSize: int64(len(fileBytes)),
		FileURL:  fmt.Sprintf("%s/%s", s.cfg.R2.PublicURL, key),
	}

	id, err := s.ma.Create(ctx, asset)
	if err != nil {
		return nil, err
	}
	asset.ID = id

	return asset, nil
}

func (s *mediaService) ListAssets(ctx context.Context, userID int64) ([]*models.MediaAsset, error) {
	return s.ma.ListByUserID(ctx, userID)
}

func (s *mediaService) RemoveAsset(ctx context.Context, userID, assetID int64) error {
	asset, isExist, err := s.ma.GetByUserID(ctx, assetID, userID)
	if err != nil {
		return err
	}
	if !isExist {
		return errors.New("Asset not found")
	}

	if err := s.r2.Remove(ctx, asset.FileName); err != nil {
		return fmt.Errorf("error removing file: %w", err)
	}

	return s.ma.Remove(ctx, assetID)
}
