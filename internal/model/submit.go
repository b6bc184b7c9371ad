package model

// SubmitRequest is the REST body for one-off executions outside a room.
type SubmitRequest struct {
	Language string `json:"language" valid:"length(1|64)"`
	Content  string `json:"content" valid:"length(0|8192)"`
	Input    string `json:"input" valid:"length(0|8192),optional"`
}

// SubmitResponse carries the execution output, success and failure alike.
type SubmitResponse struct {
	Output string `json:"output"`
}
