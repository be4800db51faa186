package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/2beens/syclar/internal/backup"

	"github.com/spf13/cobra"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type backupOptions struct {
	credentialsPath string
	folder          string
	endpoint        string
}

func (o *backupOptions) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.credentialsPath, "credentials", "", "google service account credentials file")
	cmd.PersistentFlags().StringVar(&o.folder, "folder", backup.DefaultFolderName, "drive folder holding the backups")
	cmd.PersistentFlags().StringVar(&o.endpoint, "drive-endpoint", "", "drive API base URL override")
	_ = cmd.PersistentFlags().MarkHidden("drive-endpoint")
}

func (o *backupOptions) openDrive(ctx context.Context) (*backup.Drive, error) {
	var opts []option.ClientOption
	switch {
	case o.credentialsPath != "":
		opts = append(opts,
			option.WithCredentialsFile(o.credentialsPath),
			option.WithScopes(drive.DriveFileScope),
		)
	case o.endpoint != "":
		opts = append(opts, option.WithoutAuthentication())
	default:
		return nil, errors.New("--credentials is required")
	}
	if o.endpoint != "" {
		opts = append(opts, option.WithEndpoint(o.endpoint))
	}
	return backup.NewDrive(ctx, o.folder, opts...)
}

type backupRecord struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
	Name   string `json:"name"`
}

func newBackupCmd(root *rootOptions) *cobra.Command {
	opts := &backupOptions{}
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export activity states to Google Drive",
	}
	opts.bind(cmd)
	cmd.AddCommand(
		newBackupPushCmd(root, opts),
		newBackupListCmd(opts),
	)
	return cmd
}

func newBackupPushCmd(root *rootOptions, backupOpts *backupOptions) *cobra.Command {
	stateOpts := &stateOptions{root: root}

	cmd := &cobra.Command{
		Use:   "push USER_ID...",
		Short: "Upload the current state of each user as a JSON file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			driveBackup, err := backupOpts.openDrive(ctx)
			if err != nil {
				return err
			}

			service, closeFn, err := stateOpts.openService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			records := make([]backupRecord, 0, len(args))
			for _, userID := range args {
				state, err := service.State(ctx, userID)
				if err != nil {
					return err
				}
				data, err := json.Marshal(state)
				if err != nil {
					return err
				}

				file, err := driveBackup.Upload(ctx, backup.StateFileName(userID, service.Today()), bytes.NewReader(data))
				if err != nil {
					return err
				}
				records = append(records, backupRecord{
					UserID: userID,
					FileID: file.Id,
					Name:   file.Name,
				})
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
	stateOpts.bind(cmd)
	return cmd
}

func newBackupListCmd(backupOpts *backupOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the uploaded backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			driveBackup, err := backupOpts.openDrive(cmd.Context())
			if err != nil {
				return err
			}
			files, err := driveBackup.List(cmd.Context())
			if err != nil {
				return err
			}

			records := make([]backupRecord, 0, len(files))
			for _, f := range files {
				records = append(records, backupRecord{FileID: f.Id, Name: f.Name})
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
}
