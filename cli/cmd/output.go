// ABOUTME: Shared output helpers for callbridgectl commands
// ABOUTME: Prints JSON or human text and maps errors to exit codes

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/callbridge/cli/internal/client"
	"github.com/markalston/callbridge/cli/internal/prompt"
	"github.com/markalston/callbridge/cli/internal/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Swapped in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	promptAdminKey  = func() (string, error) { return prompt.AdminKey(os.Stdin, os.Stderr) }
)

// newClient builds an API client from the global flags.
func newClient() *client.Client {
	return client.New(GetAPIURL(), GetAdminKey())
}

// newAdminClient builds a client for admin endpoints. When no key is set
// by flag or environment and stdin is a terminal, the key is prompted for.
// Without a terminal the request goes out keyless and the server decides.
func newAdminClient() (*client.Client, error) {
	key, err := resolveAdminKey()
	if err != nil {
		return nil, err
	}
	return client.New(GetAPIURL(), key), nil
}

func resolveAdminKey() (string, error) {
	if key := GetAdminKey(); key != "" {
		return key, nil
	}
	if !stdinIsTerminal() {
		return "", nil
	}
	key, err := promptAdminKey()
	if err != nil {
		return "", fmt.Errorf("reading admin key: %w", err)
	}
	return key, nil
}

// writeJSON pretty-prints v.
func writeJSON(w io.Writer, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// backendError prints err and returns the backend exit code.
func backendError(w io.Writer, err error) int {
	fmt.Fprintf(w, "%s %v\n", styles.Error.Render("Error:"), err)
	return exitBackend
}

// usageError prints err and returns the usage exit code.
func usageError(w io.Writer, err error) int {
	fmt.Fprintf(w, "%s %v\n", styles.Error.Render("Error:"), err)
	return exitUsage
}

// runWithSignals runs fn with a context cancelled on SIGINT/SIGTERM and
// exits with its code when non-zero.
func runWithSignals(cmd *cobra.Command, fn func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if exitCode := fn(ctx, cmd.OutOrStdout()); exitCode != exitOK {
		os.Exit(exitCode)
	}
}
