package types

// ErrorResponse is the generic error JSON shape returned by the API.
// RequestID matches the X-Request-ID response header when one was assigned
type ErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// MessageResponse is returned by operations that only report success
type MessageResponse struct {
	Message string `json:"message"`
}

// InsertResult is returned after a document has been created
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpsertResult is returned after the company details have been saved
type UpsertResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
}
