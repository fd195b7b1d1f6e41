// ABOUTME: Caller memory commands for callbridgectl
// ABOUTME: Adds and reads facts, and hashes caller IDs locally

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/markalston/callbridge/cli/internal/styles"
	"github.com/markalston/callbridge/models"
	"github.com/markalston/callbridge/services"
	"github.com/spf13/cobra"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage per-caller memory",
}

var memoryAddCmd = &cobra.Command{
	Use:   "add <phone_hash> <fact>",
	Short: "Add a fact to a caller's memory",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(cmd, func(ctx context.Context, w io.Writer) int {
			return runMemoryAdd(ctx, w, args[0], args[1])
		})
	},
}

var memoryGetCmd = &cobra.Command{
	Use:   "get <phone_hash>",
	Short: "Show a caller's memory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(cmd, func(ctx context.Context, w io.Writer) int {
			return runMemoryGet(ctx, w, args[0])
		})
	},
}

var memoryHashCmd = &cobra.Command{
	Use:   "hash <caller_id>",
	Short: "Print the phone hash for a caller ID",
	Long: `Print the phone hash the server uses for a caller ID. Formatting is
ignored, so "+1 (555) 010-0000" and "15550100000" hash the same.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(cmd, func(ctx context.Context, w io.Writer) int {
			return runMemoryHash(w, args[0])
		})
	},
}

func init() {
	memoryCmd.AddCommand(memoryAddCmd, memoryGetCmd, memoryHashCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryAdd(ctx context.Context, w io.Writer, phoneHash, fact string) int {
	c, err := newAdminClient()
	if err != nil {
		return usageError(w, err)
	}
	resp, err := c.AddFact(ctx, phoneHash, fact)
	if err != nil {
		return backendError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, resp)
	} else {
		fmt.Fprintf(w, "%s fact for %s (%d facts)\n", styles.StatusOK.Render("Stored"), resp.PhoneHash, resp.FactCount)
	}
	return exitOK
}

func runMemoryGet(ctx context.Context, w io.Writer, phoneHash string) int {
	c, err := newAdminClient()
	if err != nil {
		return usageError(w, err)
	}
	mem, err := c.GetMemory(ctx, phoneHash)
	if err != nil {
		return backendError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, mem)
	} else {
		fmt.Fprintln(w, formatMemoryHuman(mem))
	}
	return exitOK
}

func runMemoryHash(w io.Writer, callerID string) int {
	hash := services.HashPhone(callerID)
	if hash == "" {
		return usageError(w, fmt.Errorf("%q contains no digits", callerID))
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]string{"caller_id": callerID, "phone_hash": hash})
	} else {
		fmt.Fprintln(w, hash)
	}
	return exitOK
}

func formatMemoryHuman(mem *models.CallerMemory) string {
	var b strings.Builder
	b.WriteString(styles.Field("Caller:", mem.PhoneHash) + "\n")
	b.WriteString(styles.Field("Calls:", fmt.Sprint(mem.CallCount)) + "\n")
	if mem.LastCallAt != nil {
		b.WriteString(styles.Field("Last call:", mem.LastCallAt.Format(time.RFC3339)) + "\n")
	}
	if len(mem.Facts) == 0 {
		b.WriteString(styles.Label.Render("Facts:") + styles.Dim.Render("none"))
		return b.String()
	}
	b.WriteString(styles.Title.Render("Facts:"))
	for _, f := range mem.Facts {
		fmt.Fprintf(&b, "\n  - %s %s", f.Text, styles.Dim.Render("("+f.Source+")"))
	}
	return b.String()
}
