package common

import "encoding/json"

// Job is the queue envelope. Routing fields sit in payload.data; the business data in
// payload.data.data stays raw until a handler decodes it.
type Job struct {
	Payload *JobPayload `json:"payload"`
}

type JobPayload struct {
	Data *JobPayloadData `json:"data"`
}

type JobPayloadData struct {
	RequestID  string          `json:"request_id"`
	ActionType string          `json:"action_type"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
}

// Meta is the routing part of a job.
type Meta struct {
	RequestID  string
	ActionType string
	ID         string
}
