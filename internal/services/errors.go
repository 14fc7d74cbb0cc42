package services

import "fmt"

// Error codes surfaced to API clients
const (
	CodeDeadlinePassed     = "DEADLINE_PASSED"
	CodeChampionshipLocked = "CHAMPIONSHIP_LOCKED"
	CodeDuplicateRider     = "DUPLICATE_RIDER"
	CodeInactiveRider      = "INACTIVE_RIDER"
	CodeInvalidResultType  = "INVALID_RESULT_TYPE"
	CodeFeedNotConfigured  = "FEED_NOT_CONFIGURED"
	CodeNoTablesSpecified  = "NO_TABLES_SPECIFIED"
	CodeEmptyFeed          = "EMPTY_FEED"
)

// Service errors
var (
	ErrDeadlinePassed     = &ServiceError{Code: CodeDeadlinePassed, Message: "prediction deadline has passed"}
	ErrPredictionLocked   = &ServiceError{Code: CodeDeadlinePassed, Message: "prediction is locked and can no longer be changed"}
	ErrChampionshipLocked = &ServiceError{Code: CodeChampionshipLocked, Message: "championship predictions are locked for this season"}
	ErrDuplicateRider     = &ServiceError{Code: CodeDuplicateRider, Message: "each pick must be a different rider"}
	ErrInactiveRider      = &ServiceError{Code: CodeInactiveRider, Message: "rider is not active"}
	ErrInvalidResultType  = &ServiceError{Code: CodeInvalidResultType, Message: "result type must be sprint or race"}
	ErrFeedNotConfigured  = &ServiceError{Code: CodeFeedNotConfigured, Message: "timing feed URL is not configured"}
	ErrNoTablesSpecified  = &ServiceError{Code: CodeNoTablesSpecified, Message: "no tables specified"}
	ErrEmptyFeed          = &ServiceError{Code: CodeEmptyFeed, Message: "timing feed returned no classified riders"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}
