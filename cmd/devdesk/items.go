package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"devdesk/internal/config"
	"devdesk/internal/models"
	"devdesk/internal/server"
	"devdesk/internal/storage/sqlite"
)

func itemsCmd() *cobra.Command {
	var typ, status, priority, projectID, search string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List items, highest priority first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.ItemFilter{
				Type:      models.ItemType(typ),
				Status:    models.Status(status),
				Priority:  models.Priority(priority),
				ProjectID: projectID,
				Search:    search,
			}
			return withStore(func(_ *config.Config, store *sqlite.Store) error {
				items, err := store.ListItems(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), items)
				}
				renderItems(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "type filter (TASK, BUG)")
	cmd.Flags().StringVar(&status, "status", "", "status filter (TODO, IN_PROGRESS, DONE)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority filter (LOW, MEDIUM, HIGH)")
	cmd.Flags().StringVar(&projectID, "project", "", "project id filter")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title search")
	return cmd
}

func exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every item to a dated JSON backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *config.Config, store *sqlite.Store) error {
				items, err := store.ListItems(cmd.Context(), models.ItemFilter{})
				if err != nil {
					return err
				}
				path, err := writeExport(dir, items, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d items to %s\n", len(items), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "output directory")
	return cmd
}

func renderItems(w io.Writer, items []models.Item) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Type", "Title", "Status", "Priority", "Project", "Est", "Actual"})
	for _, it := range items {
		project := ""
		if it.Project != nil {
			project = it.Project.Name
		}
		tw.AppendRow(table.Row{it.ID, it.Type, it.Title, it.Status, it.Priority, project,
			formatHours(it.EstimatedHours), formatHours(it.ActualHours)})
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d items", len(items))})
	tw.Render()
}

func formatHours(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "h"
}

// writeExport writes items as indented JSON named after the export date.
func writeExport(dir string, items []models.Item, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, server.ExportFilename(at))
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
