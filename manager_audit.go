package goSession

import (
	"context"
	"errors"
)

const (
	auditEventSignUpSuccess        = "sign_up_success"
	auditEventSignUpFailure        = "sign_up_failure"
	auditEventSignInSuccess        = "sign_in_success"
	auditEventSignInFailure        = "sign_in_failure"
	auditEventSignInIncomplete     = "sign_in_incomplete"
	auditEventSignOut              = "sign_out"
	auditEventRestoreAuthenticated = "restore_authenticated"
	auditEventRestoreAnonymous     = "restore_anonymous"
	auditEventStorageDegraded      = "storage_degraded"
)

// AuditErrorCode is the coarse error classification recorded in AuditEvent.Error.
type AuditErrorCode string

const (
	auditErrRejected       AuditErrorCode = "rejected"
	auditErrIncomplete     AuditErrorCode = "incomplete_response"
	auditErrInvalidPayload AuditErrorCode = "invalid_payload"
	auditErrRemoteTimeout  AuditErrorCode = "remote_timeout"
	auditErrTransport      AuditErrorCode = "transport"
	auditErrStorageTimeout AuditErrorCode = "storage_timeout"
	auditErrStorage        AuditErrorCode = "storage"
	auditErrCanceled       AuditErrorCode = "canceled"
	auditErrInternal       AuditErrorCode = "internal_error"
)

func (m *Manager) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: m.now().UTC(),
		EventType: eventType,
		UserID:    userID,
		TraceID:   traceIDFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	m.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrIncompleteSession):
		return auditErrIncomplete
	case errors.Is(err, ErrInvalidRegistration):
		return auditErrInvalidPayload
	case errors.Is(err, ErrAuth):
		return auditErrRejected
	case errors.Is(err, ErrRemoteTimeout):
		return auditErrRemoteTimeout
	case errors.Is(err, ErrStorageTimeout):
		return auditErrStorageTimeout
	case errors.Is(err, context.Canceled):
		return auditErrCanceled
	case errors.Is(err, ErrTransport):
		return auditErrTransport
	case errors.Is(err, ErrStorage):
		return auditErrStorage
	default:
		return auditErrInternal
	}
}
