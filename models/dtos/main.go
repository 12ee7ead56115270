package dtos

import (
	"time"

	"helix/api/models/constants"
)

// -- Chat

type ChatMessageRequestDto struct {
	Content string `json:"content"`
}

type ChatMessageResponseDto struct {
	Status         int         `json:"status"`
	ConversationId string      `json:"conversationId"`
	Replies        []ChatReply `json:"replies"`
}

// ChatReply is one rendered message back to the user;
// a single inbound message can produce several
// (validation echo, outcome, render warning, ..)
type ChatReply struct {
	Type     string         `json:"type"` // info | success | warning | error
	Content  string         `json:"content"`
	Artifact *ArtifactDto   `json:"artifact,omitempty"`
	Batch    []BatchLineDto `json:"batch,omitempty"`
}

type ArtifactDto struct {
	Id  string `json:"id"`
	Url string `json:"url"`
}

// -- Batch accounting (order-preserved, one entry per input line)

type BatchLineDto struct {
	Line    int                 `json:"line"`
	Input   string              `json:"input"`
	Kind    constants.InputKind `json:"kind"`
	Ok      bool                `json:"ok"`
	Message string              `json:"message"`
}

// -- Dispatch audit overview

type RequestsOverviewDto struct {
	Status   int                    `json:"status"`
	Message  string                 `json:"message"`
	Kinds    map[string]interface{} `json:"kinds"`
	Outcomes map[string]interface{} `json:"outcomes"`
}

// -- Errors

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}

type GeneralError struct {
	Message string `json:"message"`
}
