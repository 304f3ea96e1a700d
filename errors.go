package nanodbc

import (
	"fmt"
	"strings"
)

// DatabaseError carries the diagnostics the driver reported for a failed
// native call. State and Native come from the first diagnostic record in
// the chain; Message concatenates the messages of every record.
type DatabaseError struct {
	State   string
	Native  int32
	Message string
	Context string // description of the failed call, e.g. "SQLExecute"
}

// Error implements the error interface
func (e *DatabaseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: [%s] %s (native error: %d)", e.Context, e.State, e.Message, e.Native)
	}
	return fmt.Sprintf("[%s] %s (native error: %d)", e.State, e.Message, e.Native)
}

// Is reports whether target matches this error's SQLState. This allows
// errors.Is checks against a *DatabaseError holding just a state constant.
func (e *DatabaseError) Is(target error) bool {
	if t, ok := target.(*DatabaseError); ok {
		return e.State == t.State
	}
	return false
}

// TypeIncompatibleError reports a conversion with no supported mapping
// between a host type and a protocol type.
type TypeIncompatibleError struct {
	From string // source type description
	To   string // requested destination type
}

func (e *TypeIncompatibleError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("type incompatible: unsupported type %s", e.From)
	}
	return fmt.Sprintf("type incompatible: cannot convert %s to %s", e.From, e.To)
}

// NullAccessError reports an attempt to read a null cell without supplying
// a fallback value.
type NullAccessError struct {
	Column int
	Name   string
}

func (e *NullAccessError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("null access: column %d (%s) is null", e.Column, e.Name)
	}
	return fmt.Sprintf("null access: column %d is null", e.Column)
}

// IndexRangeError reports a column or parameter reference outside the
// bounds the driver described, or a name with no matching column.
type IndexRangeError struct {
	Kind  string // "column" or "parameter"
	Index int
	Count int
	Name  string // set when a name lookup failed
}

func (e *IndexRangeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("index out of range: no %s named %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("index out of range: %s %d (have %d)", e.Kind, e.Index, e.Count)
}

// ProgrammingError reports misuse of the required call sequence, such as
// executing an unprepared statement or fetching from a released result.
type ProgrammingError struct {
	Message string
}

func (e *ProgrammingError) Error() string {
	return "programming error: " + e.Message
}

func newProgrammingError(format string, args ...interface{}) *ProgrammingError {
	return &ProgrammingError{Message: fmt.Sprintf(format, args...)}
}

func columnRangeError(index, count int) *IndexRangeError {
	return &IndexRangeError{Kind: "column", Index: index, Count: count}
}

func paramRangeError(index, count int) *IndexRangeError {
	return &IndexRangeError{Kind: "parameter", Index: index, Count: count}
}

// DiagRecord represents a single diagnostic record from ODBC
type DiagRecord struct {
	SQLState    string
	NativeError int32
	Message     string
}

// GetDiagRecords retrieves all diagnostic records for a handle
func GetDiagRecords(handleType SQLSMALLINT, handle SQLHANDLE) []DiagRecord {
	var records []DiagRecord
	sqlState := make([]byte, 6)
	message := make([]byte, 1024)

	for i := SQLSMALLINT(1); ; i++ {
		nativeError, msgLen, ret := GetDiagRec(handleType, handle, i, sqlState, message)
		if ret == SQL_NO_DATA {
			break
		}
		if IsSuccess(ret) {
			// Trim null terminator if present
			state := string(sqlState[:5])
			msg := string(message[:msgLen])
			records = append(records, DiagRecord{
				SQLState:    state,
				NativeError: int32(nativeError),
				Message:     msg,
			})
		} else {
			break
		}
	}
	return records
}

// NewDatabaseError assembles a DatabaseError from the handle's diagnostic
// chain. The first record supplies State and Native; the messages of all
// records are joined in order. Handles with no records produce a generic
// HY000 error so the failure still surfaces.
func NewDatabaseError(handleType SQLSMALLINT, handle SQLHANDLE, context string) *DatabaseError {
	records := GetDiagRecords(handleType, handle)
	if len(records) == 0 {
		return &DatabaseError{
			State:   SQLStateGeneralError,
			Message: "no diagnostic records available",
			Context: context,
		}
	}
	msg := records[0].Message
	if len(records) > 1 {
		var sb strings.Builder
		for i, rec := range records {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(rec.Message)
		}
		msg = sb.String()
	}
	return &DatabaseError{
		State:   records[0].SQLState,
		Native:  records[0].NativeError,
		Message: msg,
		Context: context,
	}
}

// SQLState constants for common errors.
// These are the standard ODBC SQLSTATE values and can be used with errors.Is.
const (
	// Connection errors (08xxx)
	SQLStateConnectionFailure  = "08001" // Unable to connect
	SQLStateConnectionNotOpen  = "08003" // Connection not open
	SQLStateConnectionRejected = "08004" // Connection rejected by server
	SQLStateConnectionError    = "08S01" // Communication link failure

	// Warning states (01xxx)
	SQLStateDataTruncation = "01004" // Data truncated
	SQLStateOptionChanged  = "01S02" // Option value changed

	// No data (02xxx)
	SQLStateNoData = "02000" // No data found

	// Data errors (22xxx)
	SQLStateStringTruncation = "22001" // String data right truncation
	SQLStateNumericOverflow  = "22003" // Numeric value out of range
	SQLStateInvalidDatetime  = "22007" // Invalid datetime format
	SQLStateDivisionByZero   = "22012" // Division by zero

	// Constraint violations (23xxx)
	SQLStateConstraintViolation = "23000" // Integrity constraint violation

	// Cursor/Transaction states (24xxx, 25xxx)
	SQLStateInvalidCursorState = "24000" // Invalid cursor state
	SQLStateInvalidTransState  = "25000" // Invalid transaction state

	// Transaction errors (40xxx)
	SQLStateDeadlock          = "40001" // Serialization failure (deadlock)
	SQLStateTransactionFailed = "40003" // Statement completion unknown

	// Syntax/access errors (42xxx)
	SQLStateSyntaxError    = "42000" // Syntax error or access violation
	SQLStateTableNotFound  = "42S02" // Table not found
	SQLStateColumnNotFound = "42S22" // Column not found

	// General errors (HYxxx)
	SQLStateGeneralError          = "HY000" // General error
	SQLStateMemoryAllocationError = "HY001" // Memory allocation error
	SQLStateFunctionSequenceError = "HY010" // Function sequence error
	SQLStateInvalidAttrValue      = "HY024" // Invalid attribute value
	SQLStateInvalidStringLength   = "HY090" // Invalid string or buffer length
	SQLStateInvalidDescIndex      = "HY091" // Invalid descriptor field identifier
	SQLStateTimeout               = "HYT00" // Timeout expired
	SQLStateConnectionTimeout     = "HYT01" // Connection timeout expired
)

// IsConnectionError reports whether err indicates a connection problem.
// Connection errors have SQLState codes starting with "08".
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*DatabaseError); ok {
		return len(e.State) >= 2 && e.State[:2] == "08"
	}
	return false
}

// IsDataTruncation reports whether err indicates data truncation.
func IsDataTruncation(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*DatabaseError); ok {
		return e.State == SQLStateDataTruncation || e.State == SQLStateStringTruncation
	}
	return false
}

// IsRetryable reports whether err represents a transient error that may
// succeed if retried. Transient errors include connection failures,
// timeouts, and deadlocks.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	e, ok := err.(*DatabaseError)
	if !ok || e.State == "" {
		return false
	}

	switch e.State {
	case SQLStateConnectionFailure, SQLStateConnectionError,
		SQLStateDeadlock, SQLStateTimeout, SQLStateConnectionTimeout,
		SQLStateTransactionFailed:
		return true
	}
	// Connection errors (08xxx) are generally retryable
	if len(e.State) >= 2 && e.State[:2] == "08" {
		return true
	}
	return false
}

// FormatReturnCode returns a string representation of an ODBC return code
func FormatReturnCode(ret SQLRETURN) string {
	switch ret {
	case SQL_SUCCESS:
		return "SQL_SUCCESS"
	case SQL_SUCCESS_WITH_INFO:
		return "SQL_SUCCESS_WITH_INFO"
	case SQL_ERROR:
		return "SQL_ERROR"
	case SQL_INVALID_HANDLE:
		return "SQL_INVALID_HANDLE"
	case SQL_NO_DATA:
		return "SQL_NO_DATA"
	case SQL_NEED_DATA:
		return "SQL_NEED_DATA"
	case SQL_STILL_EXECUTING:
		return "SQL_STILL_EXECUTING"
	default:
		return fmt.Sprintf("SQLRETURN(%d)", ret)
	}
}
