package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/xaenox/note-copy/internal/copier"
	"github.com/xaenox/note-copy/internal/locator"
	"github.com/xaenox/note-copy/internal/models"
	"github.com/xaenox/note-copy/pkg/config"
)

var (
	copyNoteID     string
	copyRecordURL  string
	copyAttachment bool
	copyUserID     string
)

// errEphemeralStore rejects copying against a store that starts empty.
var errEphemeralStore = errors.New("copy needs a persistent store: set database.driver to postgres or DATABASE_URL")

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy a note to the record identified by a URL",
	Long: `Copy a note to the record identified by a URL.

The note is read from and the copy written to the configured record store, so
copy requires the postgres driver. The in-memory driver starts empty in every
process and is refused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noteID, err := locator.ParseID(copyNoteID)
		if err != nil {
			return fmt.Errorf("invalid --note: %w", err)
		}

		userID := uuid.Nil
		if copyUserID != "" {
			if userID, err = locator.ParseID(copyUserID); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.Driver == config.DriverMemory {
			return errEphemeralStore
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		outcome, err := a.engine.Execute(cmd.Context(), models.NewExecutionContext(userID), copier.Input{
			NoteToCopy:     models.EntityReference{LogicalName: models.NoteEntityName, ID: noteID},
			RecordURL:      copyRecordURL,
			CopyAttachment: copyAttachment,
		})
		if err != nil {
			return err
		}

		out := outcome.Outputs()
		if outcome.WasCopied {
			out["NewNoteId"] = outcome.NewNoteID.String()
		}
		out["Target"] = outcome.Target.String()

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	copyCmd.Flags().StringVar(&copyNoteID, "note", "", "Id of the note to copy")
	copyCmd.Flags().StringVar(&copyRecordURL, "url", "", "Record URL of the target (etc and id parameters)")
	copyCmd.Flags().BoolVar(&copyAttachment, "copy-attachment", false, "Also copy the note's attachment")
	copyCmd.Flags().StringVar(&copyUserID, "user", "", "Id of the calling user, for audit logs")
	_ = copyCmd.MarkFlagRequired("note")
	_ = copyCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(copyCmd)
}
