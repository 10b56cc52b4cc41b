// Package s3service archives matrix exports and comparison grids in S3 so
// a chapter's snapshots can be fetched back as the "old" side of a later
// comparison.
package s3service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	appConfig "palms-analytics/internal/config"
	"palms-analytics/internal/utils"
)

const snapshotContentType = "text/csv"

// Archive stores and retrieves snapshot exports.
type Archive struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
}

// PresignedURLResult contains the presigned URL details.
type PresignedURLResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewArchive creates a snapshot archive backed by the configured bucket.
func NewArchive(ctx context.Context) (*Archive, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	appCfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}
	if appCfg.SnapshotBucket == "" {
		return nil, fmt.Errorf("SNAPSHOT_BUCKET is not configured")
	}

	client := s3.NewFromConfig(cfg)

	return &Archive{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: appCfg.SnapshotBucket,
	}, nil
}

// SnapshotKey builds the object key for a run's exported grid.
func SnapshotKey(runID, name string) string {
	return fmt.Sprintf("snapshots/%s/%s.csv", runID, name)
}

// UploadSnapshot stores an exported grid as CSV.
func (a *Archive) UploadSnapshot(ctx context.Context, key string, grid [][]string) error {
	var buf bytes.Buffer
	if err := utils.WriteRows(&buf, grid); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(snapshotContentType),
	}

	if _, err := a.client.PutObject(ctx, input); err != nil {
		utils.GetLogger().Error("Failed to upload snapshot",
			zap.String("bucket", a.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	utils.GetLogger().Info("Uploaded snapshot",
		zap.String("bucket", a.bucketName),
		zap.String("key", key),
		zap.Int("size", buf.Len()),
	)

	return nil
}

// DownloadSnapshot fetches a stored grid back as raw rows.
func (a *Archive) DownloadSnapshot(ctx context.Context, key string) ([][]string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	}

	result, err := a.client.GetObject(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to download snapshot",
			zap.String("bucket", a.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download snapshot: %w", err)
	}
	defer result.Body.Close()

	rows, err := utils.ReadRows(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", key, err)
	}

	return rows, nil
}

// PresignedDownloadURL creates a shareable download link for a snapshot.
func (a *Archive) PresignedDownloadURL(ctx context.Context, key string, expiryMinutes int) (*PresignedURLResult, error) {
	if expiryMinutes <= 0 {
		expiryMinutes = 15
	}

	expiry := time.Duration(expiryMinutes) * time.Minute

	input := &s3.GetObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	}

	presignedReq, err := a.presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &PresignedURLResult{
		URL:       presignedReq.URL,
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

// ListSnapshots lists archived snapshots, optionally under a run prefix.
func (a *Archive) ListSnapshots(ctx context.Context, prefix string, maxKeys int32) ([]types.Object, error) {
	if maxKeys <= 0 {
		maxKeys = 100
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(a.bucketName),
		MaxKeys: aws.Int32(maxKeys),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	result, err := a.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	return result.Contents, nil
}
