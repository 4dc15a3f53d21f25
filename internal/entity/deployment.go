package entity

import (
	"fmt"
	"time"
)

type DeploymentStatus string

const (
	DeploymentStatusRunning DeploymentStatus = "running"
	DeploymentStatusSuccess DeploymentStatus = "success"
	DeploymentStatusSkipped DeploymentStatus = "skipped"
	DeploymentStatusFailed  DeploymentStatus = "failed"
)

type Deployment struct {
	ID        ID               `json:"id"`
	Service   string           `json:"service"`
	Commit    string           `json:"commit"`
	Trigger   EventKind        `json:"trigger"`
	Status    DeploymentStatus `json:"status"`
	Stage     Stage            `json:"stage,omitempty"`
	Detail    string           `json:"detail,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type DeployRequest struct {
	Service string
	Commit  string
	Trigger EventKind
}

type Stage string

const (
	StageConfig Stage = "config"
	StagePull   Stage = "pull"
	StageBuild  Stage = "build"
	StageStop   Stage = "stop"
	StageRemove Stage = "remove"
	StageStart  Stage = "start"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// PipelineResult is produced once per deployment attempt. Stage and
// Diagnostic are only set when Outcome is OutcomeFailed.
type PipelineResult struct {
	Service    string
	Outcome    Outcome
	Stage      Stage
	Diagnostic string
}

func Succeeded(service string) PipelineResult {
	return PipelineResult{Service: service, Outcome: OutcomeSuccess}
}

func Skipped(service string) PipelineResult {
	return PipelineResult{Service: service, Outcome: OutcomeSkipped}
}

func Failed(service string, stage Stage, diagnostic string) PipelineResult {
	return PipelineResult{Service: service, Outcome: OutcomeFailed, Stage: stage, Diagnostic: diagnostic}
}

func (r PipelineResult) Failed() bool { return r.Outcome == OutcomeFailed }

func (r PipelineResult) Message() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("Successfully deployed service %s", r.Service)
	case OutcomeSkipped:
		return fmt.Sprintf("Service %s is not declared, nothing to deploy", r.Service)
	}
	if r.Stage == StageConfig {
		return r.Diagnostic
	}
	return fmt.Sprintf("Failed to %s service %s: %s", r.Stage, r.Service, r.Diagnostic)
}

// Status maps the pipeline outcome onto a history status.
func (r PipelineResult) Status() DeploymentStatus {
	switch r.Outcome {
	case OutcomeSuccess:
		return DeploymentStatusSuccess
	case OutcomeSkipped:
		return DeploymentStatusSkipped
	}
	return DeploymentStatusFailed
}
