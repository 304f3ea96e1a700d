package nanodbc

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// defaultOutputWidth sizes variable-length output parameter buffers when
// the driver does not report a parameter size.
const defaultOutputWidth = 4000

type nullKind int

const (
	nullsNone nullKind = iota
	nullsSentinel
	nullsFlags
)

// NullMask declares how a batch marks its null elements. Construct one
// with NoNulls, NullSentinel, or NullFlags; the three mechanisms are
// mutually exclusive by construction.
type NullMask struct {
	kind     nullKind
	sentinel interface{}
	flags    []bool
}

// NoNulls declares that every element of the batch carries a value.
func NoNulls() NullMask {
	return NullMask{kind: nullsNone}
}

// NullSentinel declares elements equal to v null. v must have the batch's
// element type.
func NullSentinel(v interface{}) NullMask {
	return NullMask{kind: nullsSentinel, sentinel: v}
}

// NullFlags declares element i null when flags[i] is true. The flag slice
// must be exactly as long as the batch.
func NullFlags(flags []bool) NullMask {
	return NullMask{kind: nullsFlags, flags: flags}
}

// ParamDesc supplies explicit parameter metadata for drivers that cannot
// describe parameter markers themselves.
type ParamDesc struct {
	Index   int         // zero-based parameter index
	SQLType SQLSMALLINT // protocol type the parameter binds as
	Size    SQLULEN     // column size
	Scale   SQLSMALLINT // decimal digits
}

// boundParam keeps a bound parameter's marshaled buffers reachable for
// the lifetime of the binding and records where output values land.
type boundParam struct {
	data    *paramData
	dir     ParamDirection
	outDest interface{}
}

// Statement wraps a statement handle on a connection. A statement is
// prepared once and can be executed repeatedly with fresh parameter
// bindings. Statements are not safe for concurrent execution.
type Statement struct {
	conn *Connection
	stmt SQLHSTMT

	mu        sync.Mutex
	open      bool
	prepared  bool
	query     string
	numParams int // -1 when the driver cannot count parameters

	params    map[int]*boundParam
	described map[int]ParamDesc

	asyncPending bool
}

// NewStatement allocates a statement handle on conn.
func NewStatement(conn *Connection) (*Statement, error) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.released {
		return nil, newProgrammingError("connection has been released")
	}
	if !conn.connected {
		return nil, newProgrammingError("connection is not connected")
	}

	var stmt SQLHSTMT
	ret := AllocHandle(SQL_HANDLE_STMT, SQLHANDLE(conn.dbc), (*SQLHANDLE)(&stmt))
	if !IsSuccess(ret) {
		return nil, NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(conn.dbc), "SQLAllocHandle")
	}

	return &Statement{
		conn:      conn,
		stmt:      stmt,
		open:      true,
		numParams: -1,
		params:    make(map[int]*boundParam),
		described: make(map[int]ParamDesc),
	}, nil
}

// NewPreparedStatement allocates a statement and prepares query on it.
func NewPreparedStatement(conn *Connection, query string) (*Statement, error) {
	st, err := NewStatement(conn)
	if err != nil {
		return nil, err
	}
	if err := st.Prepare(query); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func (s *Statement) requireOpen() error {
	if !s.open || s.stmt == 0 {
		return newProgrammingError("statement is not open")
	}
	return nil
}

func (s *Statement) requirePrepared() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if !s.prepared {
		return newProgrammingError("statement is not prepared")
	}
	return nil
}

// IsOpen reports whether the statement handle is still allocated.
func (s *Statement) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && s.stmt != 0
}

// Prepared reports whether a query has been prepared on the statement.
func (s *Statement) Prepared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepared
}

// Query returns the most recently prepared or directly executed SQL text.
func (s *Statement) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// NativeStmtHandle exposes the underlying statement handle.
func (s *Statement) NativeStmtHandle() SQLHSTMT {
	return s.stmt
}

// Close frees the statement handle and drops all parameter buffers. It is
// idempotent and never fails; the error return exists only to satisfy
// io.Closer.
func (s *Statement) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	s.prepared = false

	if s.stmt != 0 {
		FreeHandle(SQL_HANDLE_STMT, SQLHANDLE(s.stmt))
		s.stmt = 0
	}

	s.params = nil
	s.described = nil

	return nil
}

// Cancel asks the driver to abort the statement's current work.
func (s *Statement) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	if ret := Cancel(s.stmt); !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLCancel")
	}
	return nil
}

// SetTimeout bounds query execution, in seconds. Zero removes the bound.
func (s *Statement) SetTimeout(seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	ret := SetStmtAttr(s.stmt, SQL_ATTR_QUERY_TIMEOUT, uintptr(seconds), SQL_IS_UINTEGER)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLSetStmtAttr")
	}
	return nil
}

// SetCursorType selects the cursor behavior for subsequent executions.
// Position-aware navigation such as Last and Move requires a scrollable
// cursor type; the default is forward-only.
func (s *Statement) SetCursorType(t CursorType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	ret := SetStmtAttr(s.stmt, SQL_ATTR_CURSOR_TYPE, uintptr(t.attrValue()), SQL_IS_UINTEGER)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLSetStmtAttr")
	}
	return nil
}

// Prepare readies query for execution and parameter binding. Preparing a
// new query drops previous bindings.
func (s *Statement) Prepare(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}

	// Drop any open cursor from a previous execution
	FreeStmt(s.stmt, SQL_CLOSE)

	ret := Prepare(s.stmt, query)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLPrepare")
	}

	s.postPrepare(query)
	return nil
}

// postPrepare refreshes statement state after a successful prepare.
func (s *Statement) postPrepare(query string) {
	s.query = query
	s.prepared = true
	s.params = make(map[int]*boundParam)

	var numParams SQLSMALLINT
	if ret := NumParams(s.stmt, &numParams); IsSuccess(ret) {
		s.numParams = int(numParams)
	} else {
		// Some drivers cannot count parameters; bind validates what it can
		s.numParams = -1
	}
}

// Parameters returns the number of parameter markers in the prepared
// query.
func (s *Statement) Parameters() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return 0, err
	}

	var numParams SQLSMALLINT
	if ret := NumParams(s.stmt, &numParams); !IsSuccess(ret) {
		return 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLNumParams")
	}
	return int(numParams), nil
}

// DescribeParameters records explicit parameter metadata, overriding what
// the driver would report. Useful with drivers whose SQLDescribeParam is
// missing or unreliable.
func (s *Statement) DescribeParameters(descs []ParamDesc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	for _, d := range descs {
		if d.Index < 0 {
			return paramRangeError(d.Index, s.numParams)
		}
		s.described[d.Index] = d
	}
	return nil
}

// resolveParamType determines the protocol type, size, and scale for a
// parameter: explicit descriptions win, otherwise the driver is asked.
func (s *Statement) resolveParamType(index int) (sqltype SQLSMALLINT, size SQLULEN, scale SQLSMALLINT, err error) {
	if d, ok := s.described[index]; ok {
		return d.SQLType, d.Size, d.Scale, nil
	}

	var dataType, decDigits, nullable SQLSMALLINT
	var paramSize SQLULEN
	ret := DescribeParam(s.stmt, SQLUSMALLINT(index+1), &dataType, &paramSize, &decDigits, &nullable)
	if !IsSuccess(ret) {
		return 0, 0, 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLDescribeParam")
	}
	return dataType, paramSize, decDigits, nil
}

// ParameterType returns the protocol type of a parameter marker.
func (s *Statement) ParameterType(index int) (SQLSMALLINT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return 0, err
	}
	if err := s.checkParamIndex(index); err != nil {
		return 0, err
	}
	t, _, _, err := s.resolveParamType(index)
	return t, err
}

// ParameterSize returns the column size of a parameter marker.
func (s *Statement) ParameterSize(index int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return 0, err
	}
	if err := s.checkParamIndex(index); err != nil {
		return 0, err
	}
	_, size, _, err := s.resolveParamType(index)
	return int(size), err
}

// ParameterScale returns the decimal digits of a parameter marker.
func (s *Statement) ParameterScale(index int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return 0, err
	}
	if err := s.checkParamIndex(index); err != nil {
		return 0, err
	}
	_, _, scale, err := s.resolveParamType(index)
	return int(scale), err
}

// checkParamIndex validates index before any native bind work. A driver
// that cannot count parameters only gets the non-negative check.
func (s *Statement) checkParamIndex(index int) error {
	if index < 0 {
		return paramRangeError(index, s.numParams)
	}
	if s.numParams >= 0 && index >= s.numParams {
		return paramRangeError(index, s.numParams)
	}
	return nil
}

// bindParamData performs the native bind for marshaled parameter data and
// retains the buffers.
func (s *Statement) bindParamData(index int, pd *paramData, dir ParamDirection, outDest interface{}) error {
	if err := s.checkParamIndex(index); err != nil {
		return err
	}

	sqltype, size, scale, err := s.resolveParamType(index)
	if err != nil {
		return err
	}

	colSize := pd.spec.colSize
	if size > colSize {
		colSize = size
	}
	if colSize == 0 {
		colSize = 1
	}

	// Retain before the native call so the driver never sees freed memory
	s.params[index] = &boundParam{data: pd, dir: dir, outDest: outDest}

	ret := BindParameter(
		s.stmt,
		SQLUSMALLINT(index+1),
		dir.ioType(),
		pd.spec.ctype,
		sqltype,
		colSize,
		scale,
		uintptr(unsafe.Pointer(&pd.data[0])),
		SQLLEN(pd.stride),
		&pd.inds[0],
	)
	if !IsSuccess(ret) {
		delete(s.params, index)
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLBindParameter")
	}

	return nil
}

// Bind attaches a single input value to the parameter at the zero-based
// index. A nil value binds SQL NULL.
func (s *Statement) Bind(index int, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}

	pd, err := encodeValue(value)
	if err != nil {
		return err
	}
	return s.bindParamData(index, pd, ParamIn, nil)
}

// BindBatch attaches a slice of values to the parameter at the zero-based
// index for array execution. nulls selects the batch's null mechanism.
func (s *Statement) BindBatch(index int, values interface{}, nulls NullMask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}

	pd, err := encodeBatch(values, 0, nulls)
	if err != nil {
		return err
	}
	if pd.batch == 0 {
		return newProgrammingError("cannot bind an empty batch to parameter %d", index)
	}
	return s.bindParamData(index, pd, ParamIn, nil)
}

// BindStrings attaches a string batch with a declared slot width in
// characters. Elements longer than width are rejected rather than
// truncated. A width of zero sizes slots from the longest element.
func (s *Statement) BindStrings(index int, values []string, width int, nulls NullMask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}

	pd, err := encodeStringBatch(values, width, nulls)
	if err != nil {
		return err
	}
	if pd.batch == 0 {
		return newProgrammingError("cannot bind an empty batch to parameter %d", index)
	}
	return s.bindParamData(index, pd, ParamIn, nil)
}

// BindWideStrings is BindStrings for UTF-16 string batches. width is in
// UTF-16 code units.
func (s *Statement) BindWideStrings(index int, values []WideString, width int, nulls NullMask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}

	pd, err := encodeWideBatch(values, width, nulls)
	if err != nil {
		return err
	}
	if pd.batch == 0 {
		return newProgrammingError("cannot bind an empty batch to parameter %d", index)
	}
	return s.bindParamData(index, pd, ParamIn, nil)
}

// BindBinary attaches a binary batch with a declared slot width in bytes.
// Elements longer than width are rejected rather than truncated. A width
// of zero sizes slots from the longest element.
func (s *Statement) BindBinary(index int, values [][]byte, width int, nulls NullMask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}

	pd, err := encodeBinaryBatch(values, width, nulls)
	if err != nil {
		return err
	}
	if pd.batch == 0 {
		return newProgrammingError("cannot bind an empty batch to parameter %d", index)
	}
	return s.bindParamData(index, pd, ParamIn, nil)
}

// BindNull binds SQL NULL to every element of the parameter. batch sizes
// the null run for array execution; values below one bind a single null.
func (s *Statement) BindNull(index int, batch int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}

	if batch < 1 {
		batch = 1
	}
	spec, _ := paramSpecFor("")
	spec.colSize = 1
	pd := &paramData{
		spec:   spec,
		data:   make([]byte, batch),
		inds:   make([]SQLLEN, batch),
		stride: 1,
		batch:  batch,
	}
	for i := range pd.inds {
		pd.inds[i] = SQL_NULL_DATA
	}
	return s.bindParamData(index, pd, ParamIn, nil)
}

// outputTarget maps an output destination pointer to a sample value for
// the registry and the pointer's current value for input/output binds.
func outputTarget(dest interface{}) (sample interface{}, cur interface{}, err error) {
	switch d := dest.(type) {
	case *bool:
		return false, *d, nil
	case *int8:
		return int8(0), *d, nil
	case *int16:
		return int16(0), *d, nil
	case *int32:
		return int32(0), *d, nil
	case *int64:
		return int64(0), *d, nil
	case *int:
		return 0, *d, nil
	case *uint8:
		return uint8(0), *d, nil
	case *uint16:
		return uint16(0), *d, nil
	case *uint32:
		return uint32(0), *d, nil
	case *uint64:
		return uint64(0), *d, nil
	case *float32:
		return float32(0), *d, nil
	case *float64:
		return float64(0), *d, nil
	case *string:
		return "", *d, nil
	case *WideString:
		return WideString(""), *d, nil
	case *[]byte:
		return []byte(nil), *d, nil
	case *time.Time:
		return time.Time{}, *d, nil
	case *Date:
		return Date{}, *d, nil
	case *Time:
		return Time{}, *d, nil
	case *Timestamp:
		return Timestamp{}, *d, nil
	case *uuid.UUID:
		return uuid.UUID{}, *d, nil
	default:
		return nil, nil, &TypeIncompatibleError{From: fmt.Sprintf("%T", dest), To: "output parameter"}
	}
}

// BindOutput binds dest to receive the parameter's value after execution.
// dest must be a pointer from the supported host type set. dir selects
// output-only, input/output, or return-value semantics; for input/output
// the pointer's current value travels to the server. A null output leaves
// dest unchanged.
func (s *Statement) BindOutput(index int, dest interface{}, dir ParamDirection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}
	if dir == ParamIn {
		return newProgrammingError("parameter %d: BindOutput requires an output direction; use Bind for inputs", index)
	}

	sample, cur, err := outputTarget(dest)
	if err != nil {
		return err
	}
	spec, err := paramSpecFor(sample)
	if err != nil {
		return err
	}

	if err := s.checkParamIndex(index); err != nil {
		return err
	}
	sqltype, size, scale, err := s.resolveParamType(index)
	if err != nil {
		return err
	}

	// Size the receive buffer from the described parameter, falling back
	// to a generous default for drivers that report nothing.
	stride := spec.elemSize
	switch spec.ctype {
	case SQL_C_CHAR:
		n := int(size)
		if n <= 0 {
			n = defaultOutputWidth
		}
		stride = n + 1
	case SQL_C_WCHAR:
		n := int(size)
		if n <= 0 {
			n = defaultOutputWidth
		}
		stride = (n + 1) * 2
	case SQL_C_BINARY:
		n := int(size)
		if n <= 0 {
			n = defaultOutputWidth
		}
		stride = n
	}

	pd := &paramData{
		spec:   spec,
		data:   make([]byte, stride),
		inds:   []SQLLEN{0},
		stride: stride,
		batch:  1,
	}

	if dir == ParamInOut {
		cpd, err := encodeValue(cur)
		if err != nil {
			return err
		}
		if cpd.stride > pd.stride {
			pd.stride = cpd.stride
			pd.data = make([]byte, cpd.stride)
		}
		copy(pd.data, cpd.data)
		pd.inds[0] = cpd.inds[0]
	}

	colSize := pd.spec.colSize
	if size > colSize {
		colSize = size
	}
	if colSize == 0 {
		colSize = 1
	}

	s.params[index] = &boundParam{data: pd, dir: dir, outDest: dest}

	ret := BindParameter(
		s.stmt,
		SQLUSMALLINT(index+1),
		dir.ioType(),
		pd.spec.ctype,
		sqltype,
		colSize,
		scale,
		uintptr(unsafe.Pointer(&pd.data[0])),
		SQLLEN(pd.stride),
		&pd.inds[0],
	)
	if !IsSuccess(ret) {
		delete(s.params, index)
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLBindParameter")
	}

	return nil
}

// writeBackOutputs copies output parameter buffers into their caller
// destinations after a successful execution.
func (s *Statement) writeBackOutputs() error {
	for index, p := range s.params {
		if p.outDest == nil {
			continue
		}
		ind := p.data.inds[0]
		if ind == SQL_NULL_DATA {
			continue
		}

		cell := p.data.data
		switch p.data.spec.ctype {
		case SQL_C_CHAR:
			if ind >= 0 && int(ind) <= len(cell) {
				cell = cell[:ind]
			} else {
				cell = trimNUL(cell)
			}
		case SQL_C_WCHAR:
			if ind >= 0 && int(ind) <= len(cell) {
				cell = cell[:ind]
			} else {
				cell = trimWideNUL(cell)
			}
		case SQL_C_BINARY:
			if ind >= 0 && int(ind) <= len(cell) {
				cell = cell[:ind]
			}
		}

		natural, err := cellValue(p.data.spec.ctype, cell)
		if err != nil {
			return fmt.Errorf("output parameter %d: %w", index, err)
		}
		if err := assignCell(p.outDest, natural); err != nil {
			return fmt.Errorf("output parameter %d: %w", index, err)
		}
	}
	return nil
}

// ResetParameters releases all parameter bindings. Explicit descriptions
// recorded with DescribeParameters survive.
func (s *Statement) ResetParameters() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	if ret := FreeStmt(s.stmt, SQL_RESET_PARAMS); !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLFreeStmt")
	}
	s.params = make(map[int]*boundParam)
	return nil
}

// applyParamArray tells the driver how many elements of each bound batch
// to execute and validates the bindings cover that many.
func (s *Statement) applyParamArray(arrayLen int) error {
	if arrayLen < 1 {
		arrayLen = 1
	}
	for index, p := range s.params {
		if p.data.batch < arrayLen {
			return newProgrammingError("parameter %d is bound with batch length %d, shorter than the requested array length %d",
				index, p.data.batch, arrayLen)
		}
	}

	ret := SetStmtAttr(s.stmt, SQL_ATTR_PARAM_BIND_TYPE, uintptr(SQL_PARAM_BIND_BY_COLUMN), 0)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLSetStmtAttr")
	}
	ret = SetStmtAttr(s.stmt, SQL_ATTR_PARAMSET_SIZE, uintptr(arrayLen), 0)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLSetStmtAttr")
	}
	return nil
}

// batchOpsOf resolves the effective batch configuration: an explicit
// argument wins; otherwise the installed config supplies the defaults.
func batchOpsOf(ops []BatchOps) BatchOps {
	if len(ops) > 0 {
		return ops[0]
	}
	if c := currentConfig(); c != nil {
		return c.BatchOps()
	}
	return DefaultBatchOps()
}

// Execute runs the prepared query and returns its results. The optional
// BatchOps sizes array parameter execution and the result's rowset.
func (s *Statement) Execute(ops ...BatchOps) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return nil, err
	}

	op := batchOpsOf(ops)
	if err := s.applyParamArray(op.paramArrayLength()); err != nil {
		return nil, err
	}

	ret := Execute(s.stmt)
	if !IsSuccess(ret) && ret != SQL_NO_DATA {
		return nil, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLExecute")
	}

	if err := s.writeBackOutputs(); err != nil {
		return nil, err
	}

	return newResult(s, op.rowsetSize())
}

// JustExecute runs the prepared query and discards any result set.
func (s *Statement) JustExecute(ops ...BatchOps) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return err
	}

	op := batchOpsOf(ops)
	if err := s.applyParamArray(op.paramArrayLength()); err != nil {
		return err
	}

	ret := Execute(s.stmt)
	if !IsSuccess(ret) && ret != SQL_NO_DATA {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLExecute")
	}

	if err := s.writeBackOutputs(); err != nil {
		return err
	}

	// Drop the cursor in case the query produced one
	FreeStmt(s.stmt, SQL_CLOSE)
	return nil
}

// ExecuteDirect runs query in one round trip without preparing it and
// returns its results.
func (s *Statement) ExecuteDirect(query string, ops ...BatchOps) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return nil, err
	}

	op := batchOpsOf(ops)
	if err := s.applyParamArray(op.paramArrayLength()); err != nil {
		return nil, err
	}

	ret := ExecDirect(s.stmt, query)
	if !IsSuccess(ret) && ret != SQL_NO_DATA {
		return nil, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLExecDirect")
	}
	s.query = query

	if err := s.writeBackOutputs(); err != nil {
		return nil, err
	}

	return newResult(s, op.rowsetSize())
}

// JustExecuteDirect runs query in one round trip and discards any result
// set.
func (s *Statement) JustExecuteDirect(query string, ops ...BatchOps) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}

	op := batchOpsOf(ops)
	if err := s.applyParamArray(op.paramArrayLength()); err != nil {
		return err
	}

	ret := ExecDirect(s.stmt, query)
	if !IsSuccess(ret) && ret != SQL_NO_DATA {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLExecDirect")
	}
	s.query = query

	if err := s.writeBackOutputs(); err != nil {
		return err
	}

	FreeStmt(s.stmt, SQL_CLOSE)
	return nil
}

// Columns returns the number of columns the executed or prepared query
// produces.
func (s *Statement) Columns() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return 0, err
	}
	var cols SQLSMALLINT
	if ret := NumResultCols(s.stmt, &cols); !IsSuccess(ret) {
		return 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLNumResultCols")
	}
	return int(cols), nil
}

// AffectedRows returns the driver's row count for the last execution.
func (s *Statement) AffectedRows() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return 0, err
	}
	var count SQLLEN
	if ret := RowCount(s.stmt, &count); !IsSuccess(ret) {
		return 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLRowCount")
	}
	return int64(count), nil
}

// enableAsync arms event-based asynchronous execution on the statement.
func (s *Statement) enableAsync(event uintptr) error {
	if !AsyncSupported() {
		return newProgrammingError("asynchronous completion is not available in the loaded driver manager")
	}
	ret := SetStmtAttr(s.stmt, SQL_ATTR_ASYNC_STMT_EVENT, event, SQL_IS_POINTER)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLSetStmtAttr")
	}
	ret = SetStmtAttr(s.stmt, SQL_ATTR_ASYNC_ENABLE, uintptr(SQL_ASYNC_ENABLE_ON), SQL_IS_UINTEGER)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLSetStmtAttr")
	}
	return nil
}

func (s *Statement) disableAsync() {
	SetStmtAttr(s.stmt, SQL_ATTR_ASYNC_ENABLE, uintptr(SQL_ASYNC_ENABLE_OFF), SQL_IS_UINTEGER)
}

// PrepareAsync starts preparing query without blocking. event is an OS
// event handle the driver signals when the prepare finishes; the caller
// waits on it and then calls CompletePrepare. A false return means the
// prepare completed synchronously.
func (s *Statement) PrepareAsync(query string, event uintptr) (stillExecuting bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return false, err
	}
	if err := s.enableAsync(event); err != nil {
		return false, err
	}

	FreeStmt(s.stmt, SQL_CLOSE)

	ret := Prepare(s.stmt, query)
	if ret == SQL_STILL_EXECUTING {
		s.asyncPending = true
		s.query = query
		return true, nil
	}
	s.disableAsync()
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLPrepare")
	}

	s.postPrepare(query)
	return false, nil
}

// CompletePrepare finishes a prepare started by PrepareAsync after the
// event handle has been signaled.
func (s *Statement) CompletePrepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.asyncPending {
		s.asyncPending = false
		var code SQLRETURN
		ret := CompleteAsync(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), &code)
		s.disableAsync()
		if !IsSuccess(ret) || !IsSuccess(code) {
			return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLCompleteAsync")
		}
	}

	s.postPrepare(s.query)
	return nil
}

// ExecuteAsync starts executing the prepared query without blocking.
// event is an OS event handle the driver signals when execution finishes;
// the caller waits on it and then calls CompleteExecute. A false return
// means execution completed synchronously, and CompleteExecute simply
// assembles the results.
func (s *Statement) ExecuteAsync(event uintptr, ops ...BatchOps) (stillExecuting bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePrepared(); err != nil {
		return false, err
	}

	op := batchOpsOf(ops)
	if err := s.applyParamArray(op.paramArrayLength()); err != nil {
		return false, err
	}
	if err := s.enableAsync(event); err != nil {
		return false, err
	}

	ret := Execute(s.stmt)
	if ret == SQL_STILL_EXECUTING {
		s.asyncPending = true
		return true, nil
	}
	s.disableAsync()
	if !IsSuccess(ret) && ret != SQL_NO_DATA {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLExecute")
	}
	return false, nil
}

// ExecuteDirectAsync starts running query in one round trip without
// blocking; see ExecuteAsync for the event contract. Completion goes
// through CompleteExecute.
func (s *Statement) ExecuteDirectAsync(query string, event uintptr, ops ...BatchOps) (stillExecuting bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return false, err
	}

	op := batchOpsOf(ops)
	if err := s.applyParamArray(op.paramArrayLength()); err != nil {
		return false, err
	}
	if err := s.enableAsync(event); err != nil {
		return false, err
	}

	ret := ExecDirect(s.stmt, query)
	s.query = query
	if ret == SQL_STILL_EXECUTING {
		s.asyncPending = true
		return true, nil
	}
	s.disableAsync()
	if !IsSuccess(ret) && ret != SQL_NO_DATA {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLExecDirect")
	}
	return false, nil
}

// CompleteExecute finishes an execution started by ExecuteAsync or
// ExecuteDirectAsync and returns its results.
func (s *Statement) CompleteExecute(ops ...BatchOps) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpen(); err != nil {
		return nil, err
	}

	if s.asyncPending {
		s.asyncPending = false
		var code SQLRETURN
		ret := CompleteAsync(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), &code)
		s.disableAsync()
		if !IsSuccess(ret) || (!IsSuccess(code) && code != SQL_NO_DATA) {
			return nil, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(s.stmt), "SQLCompleteAsync")
		}
	}

	if err := s.writeBackOutputs(); err != nil {
		return nil, err
	}

	return newResult(s, batchOpsOf(ops).rowsetSize())
}
