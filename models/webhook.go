// ABOUTME: Voice-agent webhook payloads
// ABOUTME: Personalization (conversation initiation) and post-call report shapes

package models

// ConversationInitType is the response type the voice platform expects
// from the personalization webhook.
const ConversationInitType = "conversation_initiation_client_data"

// PersonalizeRequest is sent by the voice platform when a call starts.
type PersonalizeRequest struct {
	CallerID     string `json:"caller_id"`
	AgentID      string `json:"agent_id"`
	CalledNumber string `json:"called_number,omitempty"`
	CallSID      string `json:"call_sid,omitempty"`
}

// PersonalizeResponse carries dynamic variables injected into the agent prompt.
type PersonalizeResponse struct {
	Type             string            `json:"type"`
	DynamicVariables map[string]string `json:"dynamic_variables"`
}

// PostCallRequest is sent by the voice platform after a call ends.
type PostCallRequest struct {
	CallSID  string `json:"call_sid"`
	CallerID string `json:"caller_id"`
	AgentID  string `json:"agent_id,omitempty"`
	Summary  string `json:"summary,omitempty"`
}
