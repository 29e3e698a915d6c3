package domains

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pickup/internal/printworker/domains/common"
	"pickup/pkg/errorx"
	"pickup/pkg/lmstfy"
	"pickup/pkg/lmstfyx"
	"pickup/pkg/logger"
)

// GetProcess returns the Proc injected into the framework processor.
// 1. parse the envelope; malformed jobs are buried
// 2. look the handler up by action type
// 3. run it, recovering panics
// 4. success acks, retryable errors release, anything else buries
func GetProcess(log logger.Logger, deps *common.Deps) lmstfyx.Proc {
	return func(ctx context.Context, msg *lmstfy.Message) *lmstfyx.JobResp {
		startTime := time.Now()

		meta, payload, err := parseJob(msg.Data)
		if err != nil {
			log.Errorf(ctx, "[GetProcess] parse job %s failed: %v", msg.ID, err)
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		ctx = logger.WithTraceID(ctx, meta.RequestID)
		ctx = logger.WithActionType(ctx, meta.ActionType)
		log.Infof(ctx, "[GetProcess] processing job %s: action_type=%s, id=%s", msg.ID, meta.ActionType, meta.ID)

		factory, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		resp := run(ctx, log, func() error {
			handler, err := factory(ctx, meta, payload, deps)
			if err != nil {
				return fmt.Errorf("handler creation failed: %w", err)
			}
			return handler.GetProcess()
		})

		log.Infof(ctx, "[GetProcess] processing complete: action=%s, duration=%v", resp.Action, time.Since(startTime))
		return resp
	}
}

func run(ctx context.Context, log logger.Logger, fn func() error) (resp *lmstfyx.JobResp) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
			resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}
	}()

	err := fn()
	switch {
	case err == nil:
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	case errorx.IsRetryable(err):
		log.Warnf(ctx, "[GetProcess] retryable failure: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease}
	default:
		log.Errorf(ctx, "[GetProcess] permanent failure: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}
}

func parseJob(data []byte) (*common.Meta, json.RawMessage, error) {
	var job common.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if job.Payload == nil || job.Payload.Data == nil {
		return nil, nil, fmt.Errorf("invalid job structure: payload.data is nil")
	}

	d := job.Payload.Data
	meta := &common.Meta{
		RequestID:  d.RequestID,
		ActionType: d.ActionType,
		ID:         d.ID,
	}
	if meta.RequestID == "" {
		meta.RequestID = uuid.New().String()
	}
	return meta, d.Data, nil
}
