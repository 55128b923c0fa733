// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandcraft/licensing-backend/internal/config"
)

// StorageService holds the documents that must never be publicly
// addressable: tax forms, ownership contracts and generated report
// exports. Everything is private; reads go through presigned URLs.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type StoredObject struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// UploadFile stores a multipart upload under a generated key and returns
// the key for persistence. The key is what the caller keeps; URLs are
// minted on demand.
func (s *StorageService) UploadFile(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*StoredObject, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	if len(options.AllowedTypes) > 0 {
		fileExt := strings.ToLower(filepath.Ext(header.Filename))
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("file type %s is not allowed", fileExt)
		}
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	key := s.generateKey(header.Filename, options.Folder)
	return s.UploadBytes(fileBytes, key, header.Header.Get("Content-Type"))
}

// UploadBytes stores raw content under an explicit key. Used by the
// report generator, which builds its CSV in memory.
func (s *StorageService) UploadBytes(content []byte, key, contentType string) (*StoredObject, error) {
	if s.s3Client == nil {
		// Local development, nothing durable to write to
		logrus.WithFields(logrus.Fields{"key": key, "size": len(content)}).Info("S3 not configured, upload skipped")
		return &StoredObject{Key: key, Size: int64(len(content)), MimeType: contentType}, nil
	}

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &StoredObject{
		Key:      key,
		Size:     int64(len(content)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteObject(key string) error {
	if s.s3Client == nil {
		logrus.WithField("key", key).Info("S3 not configured, delete skipped")
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// PresignedURL returns a short-lived download URL for a stored object.
func (s *StorageService) PresignedURL(key string) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	ttl := time.Duration(s.config.AWS.PresignTTL) * time.Minute
	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

func (s *StorageService) GetDefaultUploadOptions(category string) UploadOptions {
	switch category {
	case "tax_documents":
		return UploadOptions{
			Folder:       "tax-documents",
			MaxSize:      10 * 1024 * 1024, // 10MB
			AllowedTypes: []string{".pdf", ".jpg", ".jpeg", ".png"},
		}
	case "ownership_contracts":
		return UploadOptions{
			Folder:       "ownership-contracts",
			MaxSize:      25 * 1024 * 1024, // 25MB
			AllowedTypes: []string{".pdf"},
		}
	case "asset_files":
		return UploadOptions{
			Folder:       "asset-files",
			MaxSize:      50 * 1024 * 1024, // 50MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".mp4", ".mp3", ".zip"},
		}
	default:
		return UploadOptions{
			Folder:       "general",
			MaxSize:      5 * 1024 * 1024, // 5MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
		}
	}
}

func (s *StorageService) generateKey(originalName, folder string) string {
	id := uuid.New()
	ext := filepath.Ext(originalName)
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename)
	}
	return filename
}
