package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	sc "github.com/dvergara-cl/refdata/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// objectPutter is the slice of the S3 client the exporter needs; tests
// substitute a fake.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ExportService writes NDJSON snapshots of the activity log to
// S3-compatible object storage.
type ExportService struct {
	audit     *AuditService
	config    *sc.Config
	newClient func() (objectPutter, error)
}

func NewExportService(audit *AuditService, cfg *sc.Config) *ExportService {
	s := &ExportService{audit: audit, config: cfg}
	s.newClient = s.getS3Client
	return s
}

func (s *ExportService) getS3Client() (objectPutter, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func exportStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("audit/%d/%d/%d/%v.ndjson", d.Year(), d.Month(), d.Day(), uuid.New())
}

type exportedEntry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// Export serializes the full activity log as NDJSON and uploads it under a
// date-partitioned key. It returns the object key and the number of
// exported entries.
func (s *ExportService) Export(ctx context.Context) (string, int, error) {

	entries, err := s.audit.ListAll(ctx)
	if err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range entries {
		row := exportedEntry{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Details:   e.Details,
			IPAddress: e.IPAddress,
			CreatedAt: e.CreatedAt,
		}
		if err := enc.Encode(row); err != nil {
			return "", 0, fmt.Errorf("error encoding audit entry: %w", err)
		}
	}

	client, err := s.newClient()
	if err != nil {
		return "", 0, fmt.Errorf("error creating s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := exportStorageKey()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return "", 0, fmt.Errorf("error uploading audit export: %w", err)
	}

	return key, len(entries), nil
}
