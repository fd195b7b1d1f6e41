// ABOUTME: Operator note commands for callbridgectl
// ABOUTME: Adds and lists notes shared with every caller

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/markalston/callbridge/cli/internal/styles"
	"github.com/markalston/callbridge/models"
	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage operator notes",
}

var notesAddCmd = &cobra.Command{
	Use:   "add <note>",
	Short: "Add an operator note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(cmd, func(ctx context.Context, w io.Writer) int {
			return runNotesAdd(ctx, w, args[0])
		})
	},
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operator notes, oldest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(cmd, runNotesList)
	},
}

func init() {
	notesCmd.AddCommand(notesAddCmd, notesListCmd)
	rootCmd.AddCommand(notesCmd)
}

func runNotesAdd(ctx context.Context, w io.Writer, note string) int {
	c, err := newAdminClient()
	if err != nil {
		return usageError(w, err)
	}
	resp, err := c.AddNote(ctx, note)
	if err != nil {
		return backendError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
	} else {
		fmt.Fprintf(w, "%s note %s\n", styles.StatusOK.Render("Stored"), resp.ID)
	}
	return exitOK
}

func runNotesList(ctx context.Context, w io.Writer) int {
	c, err := newAdminClient()
	if err != nil {
		return usageError(w, err)
	}
	resp, err := c.ListNotes(ctx)
	if err != nil {
		return backendError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
		return exitOK
	}
	fmt.Fprintln(w, formatNotesHuman(resp.Notes))
	return exitOK
}

func formatNotesHuman(notes []models.Note) string {
	if len(notes) == 0 {
		return styles.Dim.Render("No notes")
	}
	lines := make([]string, len(notes))
	for i, n := range notes {
		lines[i] = fmt.Sprintf("%s  %s  %s",
			styles.Dim.Render(n.CreatedAt.Format(time.RFC3339)),
			styles.Dim.Render(n.ID),
			n.Text)
	}
	return strings.Join(lines, "\n")
}
