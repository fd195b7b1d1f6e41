// ABOUTME: Builds conversation-start variables for the voice agent
// ABOUTME: Turns caller memory and operator notes into dynamic variables

package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/markalston/callbridge/models"
)

// MaxPromptNotes is how many of the most recent operator notes are
// passed to the agent.
const MaxPromptNotes = 5

// Dynamic variable names sent to the agent.
const (
	VarCallerKnown   = "caller_known"
	VarCallCount     = "call_count"
	VarCallerMemory  = "caller_memory"
	VarOperatorNotes = "operator_notes"
	VarLastCallAt    = "last_call_at"
)

// BuildPersonalization renders mem and notes as the conversation
// initiation payload. notes is expected oldest first; only the latest
// MaxPromptNotes are used.
func BuildPersonalization(mem models.CallerMemory, notes []models.Note) models.PersonalizeResponse {
	lastCallAt := ""
	if mem.LastCallAt != nil {
		lastCallAt = mem.LastCallAt.UTC().Format(time.RFC3339)
	}

	return models.PersonalizeResponse{
		Type: models.ConversationInitType,
		DynamicVariables: map[string]string{
			VarCallerKnown:   strconv.FormatBool(mem.Known()),
			VarCallCount:     strconv.Itoa(mem.CallCount),
			VarCallerMemory:  formatFacts(mem.Facts),
			VarOperatorNotes: formatNotes(LatestNotes(notes, MaxPromptNotes)),
			VarLastCallAt:    lastCallAt,
		},
	}
}

// LatestNotes returns the last n notes, keeping their order.
func LatestNotes(notes []models.Note, n int) []models.Note {
	if n <= 0 {
		return nil
	}
	if len(notes) > n {
		return notes[len(notes)-n:]
	}
	return notes
}

func formatFacts(facts []models.Fact) string {
	lines := make([]string, 0, len(facts))
	for _, f := range facts {
		lines = append(lines, "- "+f.Text)
	}
	return strings.Join(lines, "\n")
}

func formatNotes(notes []models.Note) string {
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, "- "+n.Text)
	}
	return strings.Join(lines, "\n")
}
