package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies workflow errors so handlers can map them to HTTP statuses
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindForbidden
	KindConflict
)

// WorkflowError is a business rule failure that is safe to show to the caller
type WorkflowError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *WorkflowError) Error() string {
	return e.Message
}

// Is lets errors.Is match workflow errors by code
func (e *WorkflowError) Is(target error) bool {
	var other *WorkflowError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

var (
	ErrAppointmentNotFound = &WorkflowError{Kind: KindNotFound, Code: "APPOINTMENT_NOT_FOUND", Message: "Appointment not found"}
	ErrOrderNotFound       = &WorkflowError{Kind: KindNotFound, Code: "ORDER_NOT_FOUND", Message: "Order not found"}
	ErrPaymentNotFound     = &WorkflowError{Kind: KindNotFound, Code: "PAYMENT_NOT_FOUND", Message: "Payment not found"}
	ErrTaskNotFound        = &WorkflowError{Kind: KindNotFound, Code: "TASK_NOT_FOUND", Message: "Task not found"}
	ErrUserNotFound        = &WorkflowError{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User not found"}

	ErrMissingCustomer     = &WorkflowError{Kind: KindValidation, Code: "MISSING_CUSTOMER", Message: "Cannot confirm: appointment has no customer"}
	ErrEstimateUnavailable = &WorkflowError{Kind: KindValidation, Code: "ESTIMATE_UNAVAILABLE", Message: "No price is available for the selected style"}
	ErrInvalidStatus       = &WorkflowError{Kind: KindValidation, Code: "INVALID_STATUS", Message: "Unknown status"}

	ErrNotOwner = &WorkflowError{Kind: KindForbidden, Code: "FORBIDDEN", Message: "You do not have access to this resource"}

	ErrInvalidTransition = &WorkflowError{Kind: KindConflict, Code: "INVALID_TRANSITION", Message: "Status change is not allowed from the current status"}
	ErrAlreadyPaid       = &WorkflowError{Kind: KindConflict, Code: "ALREADY_PAID", Message: "Order is already fully paid"}
	ErrNothingDue        = &WorkflowError{Kind: KindConflict, Code: "NOTHING_DUE", Message: "No balance is due on this order"}
	ErrPaymentPending    = &WorkflowError{Kind: KindConflict, Code: "PAYMENT_PENDING", Message: "A final payment is already awaiting verification"}
	ErrPaymentIncomplete = &WorkflowError{Kind: KindConflict, Code: "PAYMENT_INCOMPLETE", Message: "Invoice is available once the order is fully paid"}
)

// validationError builds a validation error with a custom message
func validationError(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: fmt.Sprintf(format, args...)}
}
