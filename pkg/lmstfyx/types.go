package lmstfyx

import (
	"context"

	"pickup/pkg/lmstfy"
)

// Proc handles one consumed job and decides what happens to it.
type Proc func(ctx context.Context, msg *lmstfy.Message) *JobResp

// JobRespStatus is the fate of a consumed job.
type JobRespStatus int

const (
	// JobRespStatusSuccess acks the job.
	JobRespStatusSuccess JobRespStatus = iota
	// JobRespStatusRelease leaves the job unacked so lmstfy redelivers it after its TTR.
	JobRespStatusRelease
	// JobRespStatusBury acks a job that can never succeed.
	JobRespStatusBury
)

func (s JobRespStatus) String() string {
	switch s {
	case JobRespStatusSuccess:
		return "success"
	case JobRespStatusRelease:
		return "release"
	case JobRespStatusBury:
		return "bury"
	default:
		return "unknown"
	}
}

// JobResp is the result of a Proc.
type JobResp struct {
	Action JobRespStatus
	Data   []byte
}
