package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xaenox/note-copy/internal/locator"
	"github.com/xaenox/note-copy/internal/models"
)

var resolveURL string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the record a URL points at",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := locator.Parse(resolveURL)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.resolver.Resolve(cmd.Context(), loc.TypeCode)
		if err != nil {
			return err
		}

		target := models.EntityReference{LogicalName: name, ID: loc.RecordID}
		fmt.Fprintln(cmd.OutOrStdout(), target.String())
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveURL, "url", "", "Record URL (etc and id parameters)")
	_ = resolveCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(resolveCmd)
}
