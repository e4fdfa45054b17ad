package database

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Server error codes the tooling reacts to.
const (
	CodeNamespaceExists       = 48
	CodeIndexOptionsConflict  = 85
	CodeIndexKeySpecsConflict = 86
	CodeDocumentValidation    = 121
)

// hasCode reports whether err carries any of codes as a server error code.
func hasCode(err error, codes ...int) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	for _, code := range codes {
		if se.HasErrorCode(code) {
			return true
		}
	}
	return false
}

// IsNamespaceExists reports a create of a collection that already exists.
func IsNamespaceExists(err error) bool {
	return hasCode(err, CodeNamespaceExists)
}

// IsIndexConflict reports an index whose name or keys clash with an existing
// index declared with different options.
func IsIndexConflict(err error) bool {
	return hasCode(err, CodeIndexOptionsConflict, CodeIndexKeySpecsConflict)
}

// IsDocumentValidation reports a write rejected by a collection validator.
func IsDocumentValidation(err error) bool {
	return hasCode(err, CodeDocumentValidation)
}

// IsDuplicateKey reports a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// retryableMessages covers failures surfaced as plain errors by the driver
// during server selection, before any ServerError exists.
var retryableMessages = []string{
	"server selection error",
	"connection refused",
	"connection reset",
	"no such host",
	"i/o timeout",
}

// IsRetryable reports failures worth another connect attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryableMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
