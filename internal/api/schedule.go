package api

import (
	"context"
	"net/http"
)

// LLMAnalysis is the scheduler's qualitative assessment of one task
type LLMAnalysis struct {
	EstimatedComplexity string   `json:"estimated_complexity" yaml:"estimated_complexity"`
	PotentialRisks      []string `json:"potential_risks" yaml:"potential_risks"`
	RequiredSkills      []string `json:"required_skills" yaml:"required_skills"`
	SuggestedPriority   string   `json:"suggested_priority" yaml:"suggested_priority"`
}

// ScheduledTaskAnalysis is one task of a computed schedule. StartTime and
// EndTime are day offsets from the project start.
type ScheduledTaskAnalysis struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	StartTime    float64      `json:"start_time" yaml:"start_time"`
	EndTime      float64      `json:"end_time" yaml:"end_time"`
	Resources    []string     `json:"resources" yaml:"resources"`
	ActualReward float64      `json:"actual_reward" yaml:"actual_reward"`
	LLMAnalysis  *LLMAnalysis `json:"llm_analysis,omitempty" yaml:"llm_analysis,omitempty"`
}

// ScheduleResult is the optimizer output forwarded to the gantt-chart store
type ScheduleResult struct {
	ScheduledTasks []ScheduledTaskAnalysis `json:"scheduled_tasks" yaml:"scheduled_tasks"`
	TotalReward    float64                 `json:"total_reward" yaml:"total_reward"`
	TotalTime      float64                 `json:"total_time" yaml:"total_time"`
}

// ScheduleResponse is the body of POST /schedule
type ScheduleResponse struct {
	Message        string          `json:"message,omitempty" yaml:"message,omitempty"`
	Result         *ScheduleResult `json:"result,omitempty" yaml:"result,omitempty"`
	S3UploadStatus string          `json:"s3_upload_status,omitempty" yaml:"s3_upload_status,omitempty"`
}

// ComputeSchedule asks the service to optimize the persisted project
func (c *Client) ComputeSchedule(ctx context.Context) (*ScheduleResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, EndpointSchedule, struct{}{})
	if err != nil {
		return nil, err
	}
	var out ScheduleResponse
	if err := decode(resp, EndpointSchedule, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
