package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/dotask/internal/models"
	"github.com/balkashynov/dotask/internal/store"
)

var attachCmd = &cobra.Command{
	Use:   "attach <task-id> <file-or-url>",
	Short: "Attach a file or link to a task",
	Long: `Attach a file or a link to a task.

Files are stored inside the database, so they are limited in size
(max_attachment_size in the config, 2 MB by default). Arguments starting
with http:// or https:// are stored as links.`,
	Args: cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, args []string, a *app) {
		task, err := a.resolveTask(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		name, _ := cmd.Flags().GetString("name")
		att, err := buildAttachment(args[1], name, a.cfg.AttachmentLimit())
		if err != nil {
			if errors.Is(err, store.ErrAttachmentTooLarge) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v. Attachment not added.\n", err)
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}

		a.store.Dispatch(store.AddAttachment{TaskID: task.ID, Attachment: att})
		fmt.Fprintf(cmd.OutOrStdout(), "📎 Attached %s to %s\n", att.Name, task.Title)
	}),
}

func buildAttachment(target, name string, limit int64) (models.Attachment, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		if name == "" {
			name = target
		}
		return store.NewLinkAttachment(name, target), nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return models.Attachment{}, err
	}
	if name == "" {
		name = filepath.Base(target)
	}
	// Reject before reading the whole file into memory
	if err := store.CheckAttachmentSize(name, info.Size(), limit); err != nil {
		return models.Attachment{}, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return models.Attachment{}, err
	}
	return store.NewFileAttachment(name, data, limit)
}

func init() {
	attachCmd.Flags().String("name", "", "Display name (defaults to the file name or URL)")
}
