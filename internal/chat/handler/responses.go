package handler

import "civicbridge/internal/chat"

// ChatResponse is the reply to POST /api/chat. Source and Error are only set
// on fallback replies served while the completion provider is unavailable.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Source    string `json:"source,omitempty"`
	Error     string `json:"error,omitempty"`
}

func fromResult(result *chat.Result) ChatResponse {
	resp := ChatResponse{
		SessionID: result.SessionID,
		Response:  result.Response,
	}
	if result.Fallback {
		resp.Source = "fallback"
		if result.Cause != nil {
			resp.Error = result.Cause.Error()
		}
	}
	return resp
}

// HistoryResponse is the reply to GET /api/chat/{sessionID}/history,
// exchanges oldest first.
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Messages  []chat.Exchange `json:"messages"`
}

func fromHistory(sessionID string, exchanges []chat.Exchange) HistoryResponse {
	if exchanges == nil {
		exchanges = []chat.Exchange{}
	}
	return HistoryResponse{SessionID: sessionID, Messages: exchanges}
}
