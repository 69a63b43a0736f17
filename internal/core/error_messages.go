package core

// error_messages.go maps technical errors to messages with support codes.
//
// Codes are grouped by category:
//
//	IMP001-IMP099  import row errors (unresolved references, unknown types)
//	DB001-DB099    database operations and constraints
//	VAL001-VAL099  row and header validation
//	FILE001-FILE099 file handling and parsing
//	RUN001-RUN099  run lifecycle (busy, cancelled, timed out)
//	ERR000         anything unrecognised

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/MerchantImport/internal/csv"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

// UserMessage is a user-facing error with a support code.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

var (
	msgRequired = UserMessage{
		Message: "A required field is empty",
		Action:  "Ensure all required columns have values",
		Code:    "VAL003",
	}
	msgInvalidValue = UserMessage{
		Message: "A field has an invalid value",
		Action:  "Check the value format for this field",
		Code:    "VAL002",
	}
	msgNotFound = UserMessage{
		Message: "A referenced record does not exist",
		Action:  "Import the referenced records first",
		Code:    "IMP001",
	}
	msgUnknownType = UserMessage{
		Message: "Unknown import type",
		Action:  "Run the types command to list available import types",
		Code:    "IMP002",
	}
	msgBusy = UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "RUN001",
	}
	msgCancelled = UserMessage{
		Message: "Import was cancelled",
		Action:  "Start the import again when ready",
		Code:    "RUN002",
	}
	msgTimeout = UserMessage{
		Message: "Import timed out",
		Action:  "Try a smaller file or raise IMPORT_TIMEOUT",
		Code:    "RUN003",
	}
	msgEmptyFile = UserMessage{
		Message: "The file is empty",
		Action:  "Provide a file with a header row and data rows",
		Code:    "FILE005",
	}
)

// pgCodes maps PostgreSQL SQLSTATE codes to messages.
var pgCodes = map[string]UserMessage{
	"23505": {Message: "This value must be unique but already exists", Action: "Check for duplicate entries in your file", Code: "DB002"},
	"23503": {Message: "Referenced record does not exist", Action: "Ensure parent records are imported first", Code: "DB003"},
	"40P01": {Message: "Database was busy with conflicting operations", Action: "Please try again", Code: "DB007"},
	"57014": {Message: "Operation timed out", Action: "Try a smaller file or try again later", Code: "DB006"},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is checked in order, after the typed errors.
var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{Message: "A record with this key already exists", Action: "Review duplicates in your file", Code: "DB001"}},
	{"violates unique", pgCodes["23505"]},
	{"violates foreign key", pgCodes["23503"]},
	{"connection refused", UserMessage{Message: "Unable to connect to database", Action: "Please try again in a few moments", Code: "DB004"}},
	{"connection reset", UserMessage{Message: "Database connection was interrupted", Action: "Please try again", Code: "DB005"}},
	{"deadlock", pgCodes["40P01"]},
	{"missing required column", UserMessage{Message: "A required column is missing from the file", Action: "Check that all required columns are present in your file", Code: "VAL004"}},
	{"duplicate column", UserMessage{Message: "A column appears more than once in the file header", Action: "Remove or rename the repeated column", Code: "VAL005"}},
	{"wrong number of fields", UserMessage{Message: "File is not a valid CSV", Action: "Ensure file is comma-separated with consistent columns", Code: "FILE002"}},
	{"parse error", UserMessage{Message: "File is not a valid CSV", Action: "Ensure file is comma-separated with consistent columns", Code: "FILE002"}},
	{"request body too large", UserMessage{Message: "File exceeds maximum size limit", Action: "Split the file into smaller chunks", Code: "FILE001"}},
	{"file too large", UserMessage{Message: "File exceeds maximum size limit", Action: "Split the file into smaller chunks", Code: "FILE001"}},
	{"no file provided", UserMessage{Message: "No file was provided", Action: "Attach a CSV or XLSX file", Code: "FILE004"}},
	{"unsupported file type", UserMessage{Message: "File type is not supported", Action: "Use a .csv or .xlsx file", Code: "FILE006"}},
	{"timeout", pgCodes["57014"]},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err to a user-facing message. Typed errors are matched
// first, then PostgreSQL error codes, then message patterns.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var invalid *dataimport.InvalidDataError
	if errors.As(err, &invalid) {
		if invalid.Reason != "" {
			return withDetail(msgInvalidValue, invalid.Error())
		}
		return withDetail(msgRequired, invalid.Error())
	}

	var notFound *dataimport.EntityNotFoundError
	if errors.As(err, &notFound) {
		return withDetail(msgNotFound, notFound.Error())
	}

	switch {
	case errors.Is(err, ErrUnknownImportType):
		return msgUnknownType
	case errors.Is(err, ErrTooManyImports):
		return msgBusy
	case errors.Is(err, csv.ErrEmptyFile):
		return msgEmptyFile
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgCodes[pgErr.Code]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// withDetail replaces the generic message with the row-level one.
func withDetail(msg UserMessage, detail string) UserMessage {
	msg.Message = detail
	return msg
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than
// ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
