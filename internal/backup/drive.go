package backup

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/2beens/syclar/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	DefaultFolderName = "syclar-backup"
	folderMimeType    = "application/vnd.google-apps.folder"
	jsonMimeType      = "application/json"
)

// Drive stores state exports as JSON files inside one Google Drive folder.
type Drive struct {
	service    *drive.Service
	folderName string

	mu       sync.Mutex
	folderID string
}

func NewDrive(ctx context.Context, folderName string, opts ...option.ClientOption) (*Drive, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}
	if folderName == "" {
		folderName = DefaultFolderName
	}
	return &Drive{
		service:    driveService,
		folderName: folderName,
	}, nil
}

// StateFileName names the export of one user's state taken on date.
func StateFileName(userID, date string) string {
	return fmt.Sprintf("state-%s-%s.json", userID, date)
}

// ensureFolder finds the backups folder, creating it on first use.
func (d *Drive) ensureFolder(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.folderID != "" {
		return d.folderID, nil
	}

	query := fmt.Sprintf(
		"name = '%s' and mimeType = '%s' and trashed = false",
		d.folderName, folderMimeType,
	)
	found, err := d.service.Files.List().
		Q(query).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list backup folders: %w", err)
	}

	if len(found.Files) > 0 {
		d.folderID = found.Files[0].Id
		return d.folderID, nil
	}

	created, err := d.service.Files.Create(&drive.File{
		Name:     d.folderName,
		MimeType: folderMimeType,
	}).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create backup folder: %w", err)
	}
	log.Debugf("backup folder [%s] created: %s", d.folderName, created.Id)

	d.folderID = created.Id
	return d.folderID, nil
}

// Upload stores content as a new JSON file in the backups folder.
func (d *Drive) Upload(ctx context.Context, name string, content io.Reader) (_ *drive.File, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "backup.drive.upload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("file.name", name))

	folderID, err := d.ensureFolder(ctx)
	if err != nil {
		return nil, err
	}

	file, err := d.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: jsonMimeType,
		Parents:  []string{folderID},
	}).
		Fields("id, name, parents").
		Media(content).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	return file, nil
}

// List returns the files in the backups folder, newest first.
func (d *Drive) List(ctx context.Context) ([]*drive.File, error) {
	folderID, err := d.ensureFolder(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"'%s' in parents and mimeType != '%s' and trashed = false",
		folderID, folderMimeType,
	)
	backups, err := d.service.Files.List().
		Q(query).
		OrderBy("createdTime desc").
		Fields("files(id, name, createdTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return backups.Files, nil
}
