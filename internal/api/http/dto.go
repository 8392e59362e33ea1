package http

// CreateTableRequest is the optional payload for POST /tables.
type CreateTableRequest struct {
	Bots int `json:"bots" binding:"min=0,max=4"`
}

// AddBotsRequest is the payload for POST /tables/:code/bots.
type AddBotsRequest struct {
	Count int `json:"count" binding:"required,min=1,max=4"`
}

// ErrorResponse is returned by every endpoint on failure.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
