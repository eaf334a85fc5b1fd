package service

import "github.com/pkg/errors"

type ErrorCode string

const (
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeUnspecified  ErrorCode = "UNSPECIFIED"
	ErrorCodeInvalidBody  ErrorCode = "INVALID_BODY"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden    ErrorCode = "FORBIDDEN"

	ErrorCodeEmailExists  ErrorCode = "EMAIL_EXISTS"
	ErrorCodeSlugExists   ErrorCode = "SLUG_EXISTS"
	ErrorCodeMemberExists ErrorCode = "MEMBER_EXISTS"

	ErrorCodeUserInactive  ErrorCode = "USER_INACTIVE"
	ErrorCodeLastOwner     ErrorCode = "LAST_OWNER"
	ErrorCodeSelfForbidden ErrorCode = "SELF_FORBIDDEN"

	ErrorCodePostPublished  ErrorCode = "POST_PUBLISHED"
	ErrorCodePostNotDraft   ErrorCode = "POST_NOT_DRAFT"
	ErrorCodeScheduleInPast ErrorCode = "SCHEDULE_IN_PAST"

	ErrorCodeTicketClosed ErrorCode = "TICKET_CLOSED"

	ErrorCodeExperimentNotDraft   ErrorCode = "EXPERIMENT_NOT_DRAFT"
	ErrorCodeExperimentNotRunning ErrorCode = "EXPERIMENT_NOT_RUNNING"

	ErrorCodeTemplateInactive ErrorCode = "TEMPLATE_INACTIVE"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewServiceError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// txError unwraps the *Error a transaction callback returned. Begin and
// commit failures carry no code and collapse to UNSPECIFIED instead of
// reading as success.
func txError(err error) *Error {
	if err == nil {
		return nil
	}

	var res *Error
	if errors.As(err, &res) {
		return res
	}
	return NewServiceError(ErrorCodeUnspecified, "transaction failed")
}
