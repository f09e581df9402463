package entity

import "time"

type SessionDTO struct {
	ID        string          `json:"session_id"`
	Status    PipelineStatus  `json:"pipeline_status"`
	Mode      PipelineMode    `json:"mode"`
	Spec      *CourseSpec     `json:"course_spec,omitempty"`
	Outline   *CourseOutline  `json:"course_outline,omitempty"`
	Chapters  []Chapter       `json:"chapters,omitempty"`
	Document  *CourseDocument `json:"course_document,omitempty"`
	Artifacts []Artifact      `json:"artifacts,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateSessionResponse struct {
	ID             string         `json:"session_id"`
	Status         PipelineStatus `json:"pipeline_status"`
	HistoryEntries int            `json:"history_entries"`
}

type GenerateCourseResponse struct {
	SessionID string         `json:"session_id"`
	Status    PipelineStatus `json:"pipeline_status"`
	Chapters  []Chapter      `json:"chapters"`
	Artifacts []Artifact     `json:"artifacts"`
}

type OutlineResponse struct {
	SessionID string         `json:"session_id"`
	Status    PipelineStatus `json:"pipeline_status"`
	Outline   *CourseOutline `json:"course_outline"`
	Artifact  *Artifact      `json:"artifact,omitempty"`
}

type SetCredentialRequest struct {
	APIKey string `json:"api_key"`
}

type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

type HealthResponse struct {
	Status               string `json:"status"`
	CredentialConfigured bool   `json:"credential_configured"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Chapter int    `json:"chapter,omitempty"`
}
