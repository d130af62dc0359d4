// request_context.go - Request tracking and logging system

package common

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// RequestContext tracks one recognition request with timing per step
type RequestContext struct {
	RequestID        string
	StartTime        time.Time
	Steps            []StepLog
	CurrentStep      string
	CurrentStepStart time.Time
}

// StepLog represents a single processing step
type StepLog struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Duration  int64     `json:"duration_ms"`
	Status    string    `json:"status"` // "success", "failed", "skipped"
	Error     string    `json:"error,omitempty"`
}

// NewRequestContext creates a new request tracking context
func NewRequestContext() *RequestContext {
	reqID := uuid.New().String()
	now := time.Now()

	log.Printf("[%s] 🚀 New recognition request | %s", reqID, now.Format("15:04:05"))

	return &RequestContext{
		RequestID: reqID,
		StartTime: now,
		Steps:     []StepLog{},
	}
}

// StartStep begins tracking a new processing step
func (rc *RequestContext) StartStep(stepName string) {
	rc.CurrentStep = stepName
	rc.CurrentStepStart = time.Now()

	stepDescriptions := map[string]string{
		"load_image":         "📷 Load captcha image",
		"dispatch_providers": "🚀 Dispatch to providers",
		"vote":               "🗳️ Resolve ensemble vote",
	}

	desc := stepDescriptions[stepName]
	if desc == "" {
		desc = stepName
	}

	log.Printf("[%s] ┌── %s", rc.RequestID, desc)
}

// EndStep completes the current step and records timing
func (rc *RequestContext) EndStep(status string, err error) {
	duration := time.Since(rc.CurrentStepStart).Milliseconds()

	stepLog := StepLog{
		Name:      rc.CurrentStep,
		StartTime: rc.CurrentStepStart,
		Duration:  duration,
		Status:    status,
	}

	if err != nil {
		stepLog.Error = err.Error()
		log.Printf("[%s] └── ❌ FAILED - %s (%.2fs) - Error: %v",
			rc.RequestID, rc.CurrentStep, float64(duration)/1000, err)
	} else {
		log.Printf("[%s] └── ✅ %s (%.2fs)", rc.RequestID, rc.CurrentStep, float64(duration)/1000)
	}

	rc.Steps = append(rc.Steps, stepLog)
	rc.CurrentStep = ""
}

// LogInfo logs info-level message with request ID prefix
func (rc *RequestContext) LogInfo(format string, args ...interface{}) {
	log.Printf("[%s] ℹ️  %s", rc.RequestID, fmt.Sprintf(format, args...))
}

// LogWarning logs warning-level message with request ID prefix
func (rc *RequestContext) LogWarning(format string, args ...interface{}) {
	log.Printf("[%s] ⚠️  %s", rc.RequestID, fmt.Sprintf(format, args...))
}

// LogError logs error-level message with request ID prefix
func (rc *RequestContext) LogError(format string, args ...interface{}) {
	log.Printf("[%s] ❌ %s", rc.RequestID, fmt.Sprintf(format, args...))
}

// GetSummary returns a final summary of the entire request
func (rc *RequestContext) GetSummary() map[string]interface{} {
	totalDuration := time.Since(rc.StartTime).Milliseconds()

	stepBreakdown := make(map[string]int64)
	for _, step := range rc.Steps {
		stepBreakdown[step.Name] = step.Duration
	}

	log.Printf("[%s] ═══ 🎯 Done in %.2fs (%d steps) ═══",
		rc.RequestID, float64(totalDuration)/1000, len(rc.Steps))

	return map[string]interface{}{
		"request_id":        rc.RequestID,
		"total_duration_ms": totalDuration,
		"step_breakdown":    stepBreakdown,
		"total_steps":       len(rc.Steps),
	}
}
