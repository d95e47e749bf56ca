package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
	"github.com/valleops/postpilot/internal/transfer"
)

type MediaService interface {
	Upload(ctx context.Context, actorID, clientID string, files []*multipart.FileHeader) ([]*transfer.MediaUploadResult, error)
	List(ctx context.Context, actorID, clientID string) ([]*models.MediaAsset, error)
}

type mediaService struct {
	ma    repository.MediaAssetRepository
	guard GuardService
	r2    *R2Service
}

func NewMediaService(ma repository.MediaAssetRepository, guard GuardService, r2 *R2Service) MediaService {
	return &mediaService{
		ma:    ma,
		guard: guard,
		r2:    r2,
	}
}

func (s *mediaService) Upload(ctx context.Context, actorID, clientID string, files []*multipart.FileHeader) ([]*transfer.MediaUploadResult, error) {
	if clientID == "" {
		return nil, NewValidationError("client_id", "client_id is required")
	}
	if len(files) == 0 {
		return nil, NewValidationError("files", "no files provided")
	}

	if err := s.guard.CheckAccess(ctx, actorID, clientID); err != nil {
		return nil, err
	}

	allowedTypes := map[string]struct{}{
		"mp4": {}, "mov": {}, "jpeg": {}, "png": {}, "jpg": {},
	}

	results := make([]*transfer.MediaUploadResult, 0, len(files))
	for _, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening file: %w", err)
		}

		fileBytes, err := io.ReadAll(fileContent)
		fileContent.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return nil, NewValidationError("files", "unsupported file type")
		}
		if _, ok := allowedTypes[fileType.Extension]; !ok {
			return nil, NewValidationError("files", fmt.Sprintf("file type %s is not allowed", fileType.Extension))
		}

		result, err := s.saveFile(ctx, actorID, clientID, file.Filename, fileType.MIME.Value, fileBytes)
		if err != nil {
			return nil, fmt.Errorf("error uploading file: %w", err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *mediaService) saveFile(ctx context.Context, actorID, clientID, fileName, fileType string, file []byte) (*transfer.MediaUploadResult, error) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}

	if err := s.r2.UploadToR2(ctx, id, file, fileType); err != nil {
		return nil, err
	}

	asset := models.MediaAsset{
		ID:        id,
		ClientID:  clientID,
		FileName:  fileName,
		FileType:  fileType,
		FileSize:  int64(len(file)),
		FileURL:   s.r2.PublicURL(id),
		CreatedBy: actorID,
	}
	if err := s.ma.Create(ctx, &asset); err != nil {
		return nil, err
	}

	return &transfer.MediaUploadResult{
		AssetID:  asset.ID,
		MediaRef: asset.FileURL,
		FileType: asset.FileType,
	}, nil
}

func (s *mediaService) List(ctx context.Context, actorID, clientID string) ([]*models.MediaAsset, error) {
	if clientID == "" {
		return nil, NewValidationError("client_id", "client_id is required")
	}

	if err := s.guard.CheckAccess(ctx, actorID, clientID); err != nil {
		return nil, err
	}

	assets, err := s.ma.ListByClientID(ctx, clientID)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	return assets, nil
}
