// Package workflow implements the email triage pipeline for Mailpilot.
// It provides foundational types, prompt composition, and the 7-node state
// graph (categorize → plan → retrieve → draft ⇄ evaluate → send → resolve)
// that carries each email to a terminal outcome.
package workflow

import "errors"

// Sentinel errors for triage operations.
var (
	ErrCategorizeFailed = errors.New("categorization failed")
	ErrRetrieveFailed   = errors.New("document retrieval failed")
	ErrDraftFailed      = errors.New("draft generation failed")
	ErrEvaluateFailed   = errors.New("draft evaluation failed")
	ErrSendFailed       = errors.New("reply dispatch failed")
	ErrStateCorrupt     = errors.New("triage state corrupt")
)
