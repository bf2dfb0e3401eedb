package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the principal is authenticated but not allowed to act on the target.
var ErrForbidden = errors.New("forbidden")

// ErrBrokenReference indicates an ownership chain could not be walked because an
// intermediate record is missing (e.g. a unit whose customer was deleted).
// Callers treat it as a deny.
var ErrBrokenReference = errors.New("broken ownership reference")

// ErrConflict indicates a state conflict, e.g. assigning a unit to a customer
// that belongs to a partner of a different admin.
var ErrConflict = errors.New("conflict")

// ErrDelivery indicates the external mail relay failed to accept a message.
var ErrDelivery = errors.New("delivery failed")

// ErrStorage indicates a blob store put/delete failure.
var ErrStorage = errors.New("storage failure")

// ErrPartialCascade indicates a multi-step cascade delete did not complete.
// The enclosing transaction is rolled back; callers must not assume any part
// of the cascade ran.
var ErrPartialCascade = errors.New("cascade delete failed")
