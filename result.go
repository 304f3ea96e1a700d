package nanodbc

import (
	"errors"
	"strings"
	"unsafe"
)

// boundColumn carries one column's described metadata and, when the column
// is buffer-bound, the rowset buffer the driver fills on each fetch.
type boundColumn struct {
	name     string
	sqltype  SQLSMALLINT
	size     SQLULEN
	scale    SQLSMALLINT
	nullable SQLSMALLINT

	ctype SQLSMALLINT
	width int // per-row bytes in data; 0 when unbound
	bound bool

	data  []byte         // width * rowsetSize, nil when unbound
	inds  []SQLLEN       // one length-or-null indicator per rowset row
	cache map[int][]byte // unbound cells already read from the current rowset
}

// Result iterates the rows a statement produced. Columns are described once
// up front; fixed-width and reasonably sized variable-width columns are
// bound into rowset buffers so a single driver round trip fetches
// RowsetSize rows, while oversized and unbounded columns are read on demand
// with chunked retrieval. The result reads through its statement's cursor,
// so anything that restarts the statement invalidates it.
//
// A Result is not safe for concurrent use.
type Result struct {
	stmt    *Statement
	hstmt   SQLHSTMT
	ownStmt bool

	rowsetSize int
	columns    []boundColumn

	rowsFetched SQLULEN // written by the driver after each fetch
	rowsetPos   int     // current row within the fetched rowset
	atEnd       bool
	released    bool

	asyncPending bool
	asyncRow     bool
}

// newResult describes and binds the statement's result set. rowsetSize
// values below one fetch a single row at a time.
func newResult(s *Statement, rowsetSize int) (*Result, error) {
	if rowsetSize < 1 {
		rowsetSize = 1
	}
	r := &Result{
		stmt:       s,
		hstmt:      s.stmt,
		rowsetSize: rowsetSize,
	}
	if err := r.bindColumns(); err != nil {
		return nil, err
	}
	return r, nil
}

// ownStatement makes Close free the statement along with the cursor, for
// results whose statement nothing else holds.
func (r *Result) ownStatement() {
	r.ownStmt = true
}

// bindColumns describes the current result set and binds rowset buffers
// for every column narrow enough to hold. It is called again after
// NextResult, when the column shape changes.
func (r *Result) bindColumns() error {
	var numCols SQLSMALLINT
	if ret := NumResultCols(r.hstmt, &numCols); !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLNumResultCols")
	}

	// Bindings from a previous result set must not survive into this one;
	// the driver would keep writing through them on the next fetch.
	FreeStmt(r.hstmt, SQL_UNBIND)
	r.columns = nil
	r.rowsFetched = 0
	r.rowsetPos = 0
	r.atEnd = false

	if numCols == 0 {
		return nil
	}

	r.columns = make([]boundColumn, numCols)
	nameBuf := make([]byte, 256)
	for i := range r.columns {
		nameLen, dataType, colSize, decDigits, nullable, ret := DescribeCol(r.hstmt, SQLUSMALLINT(i+1), nameBuf)
		if !IsSuccess(ret) {
			return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLDescribeCol")
		}
		if int(nameLen) > len(nameBuf) {
			nameLen = SQLSMALLINT(len(nameBuf))
		}

		col := &r.columns[i]
		col.name = string(nameBuf[:nameLen])
		col.sqltype = dataType
		col.size = colSize
		col.scale = decDigits
		col.nullable = nullable
		col.ctype, col.width, col.bound = columnBinding(dataType, colSize, decDigits)
		col.inds = make([]SQLLEN, r.rowsetSize)
		if col.bound {
			col.data = make([]byte, col.width*r.rowsetSize)
		}
	}

	// Column-wise rowset binding: the driver fills each bound column's
	// buffer with rowsetSize consecutive rows per fetch and reports how
	// many it delivered through rowsFetched.
	ret := SetStmtAttr(r.hstmt, SQL_ATTR_ROW_BIND_TYPE, uintptr(SQL_BIND_BY_COLUMN), 0)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLSetStmtAttr")
	}
	ret = SetStmtAttr(r.hstmt, SQL_ATTR_ROW_ARRAY_SIZE, uintptr(r.rowsetSize), 0)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLSetStmtAttr")
	}
	ret = SetStmtAttr(r.hstmt, SQL_ATTR_ROWS_FETCHED_PTR, uintptr(unsafe.Pointer(&r.rowsFetched)), SQL_IS_POINTER)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLSetStmtAttr")
	}

	for i := range r.columns {
		col := &r.columns[i]
		if !col.bound {
			continue
		}
		ret := BindCol(r.hstmt, SQLUSMALLINT(i+1), col.ctype,
			uintptr(unsafe.Pointer(&col.data[0])), SQLLEN(col.width), &col.inds[0])
		if !IsSuccess(ret) {
			return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLBindCol")
		}
	}
	return nil
}

func (r *Result) requireLive() error {
	if r.released || r.hstmt == 0 {
		return newProgrammingError("result has been released")
	}
	return nil
}

// rows returns how many rows the last fetch delivered.
func (r *Result) rows() int {
	n := int(r.rowsFetched)
	if n > r.rowsetSize {
		n = r.rowsetSize
	}
	return n
}

func (r *Result) requireRow() error {
	if r.rows() == 0 || r.rowsetPos >= r.rows() {
		return newProgrammingError("no current row; call Next first")
	}
	return nil
}

func (r *Result) checkColumn(column int) error {
	if column < 0 || column >= len(r.columns) {
		return columnRangeError(column, len(r.columns))
	}
	return nil
}

// clearIndicators resets per-row state before the driver refills the
// rowset. Stale indicators from the previous rowset would otherwise leak
// into unbound-column null checks.
func (r *Result) clearIndicators() {
	for i := range r.columns {
		col := &r.columns[i]
		for j := range col.inds {
			col.inds[j] = 0
		}
		col.cache = nil
	}
}

// fetch scrolls the cursor and reports whether a row is available.
func (r *Result) fetch(offset SQLLEN, orientation SQLSMALLINT) (bool, error) {
	if len(r.columns) == 0 {
		r.atEnd = true
		return false, nil
	}
	r.clearIndicators()

	ret := FetchScroll(r.hstmt, orientation, offset)
	if ret == SQL_NO_DATA {
		r.rowsFetched = 0
		r.atEnd = true
		return false, nil
	}
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLFetchScroll")
	}

	r.rowsetPos = 0
	r.atEnd = false
	if r.rows() == 0 {
		r.atEnd = true
		return false, nil
	}
	return true, nil
}

// Next advances the cursor one row and reports whether it landed on one.
// Within a fetched rowset it steps in place; crossing the rowset boundary
// fetches the next rowset from the driver.
func (r *Result) Next() (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	if r.rows() > 0 {
		r.rowsetPos++
		if r.rowsetPos < r.rowsetSize {
			if r.rowsetPos < r.rows() {
				return true, nil
			}
			// A short rowset is the tail of the result set.
			r.atEnd = true
			return false, nil
		}
		r.rowsetPos = 0
	}
	return r.fetch(0, SQL_FETCH_NEXT)
}

// First positions the cursor on the first row. Requires a scrollable
// cursor; see Statement.SetCursorType.
func (r *Result) First() (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	return r.fetch(0, SQL_FETCH_FIRST)
}

// Last positions the cursor on the last row. Requires a scrollable cursor.
func (r *Result) Last() (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	return r.fetch(0, SQL_FETCH_LAST)
}

// Prior moves the cursor back one row, stepping within the fetched rowset
// when it can. Crossing the rowset boundary requires a scrollable cursor
// and lands on the first row of the prior rowset.
func (r *Result) Prior() (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	if r.rows() > 0 && r.rowsetPos > 0 {
		r.rowsetPos--
		r.atEnd = false
		return true, nil
	}
	return r.fetch(0, SQL_FETCH_PRIOR)
}

// Move positions the cursor on row, counted from one. Row zero parks the
// cursor before the first row, so the following Next lands on row one.
// Requires a scrollable cursor.
func (r *Result) Move(row int) (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	return r.fetch(SQLLEN(row), SQL_FETCH_ABSOLUTE)
}

// Skip advances the cursor count rows past the current one. A count of
// zero or less leaves the cursor where it is.
func (r *Result) Skip(count int) (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	if count <= 0 {
		return r.rows() > 0 && r.rowsetPos < r.rows(), nil
	}
	if r.rows() > 0 && r.rowsetPos+count < r.rows() {
		r.rowsetPos += count
		return true, nil
	}
	// The driver's relative fetch is anchored on the rowset start, not on
	// the row the cursor sits on.
	return r.fetch(SQLLEN(r.rowsetPos+count), SQL_FETCH_RELATIVE)
}

// Position returns the 1-based number of the current row within the
// result set, or zero when the cursor has no current row.
func (r *Result) Position() (int, error) {
	if err := r.requireLive(); err != nil {
		return 0, err
	}
	var pos SQLULEN
	ret := GetStmtAttr(r.hstmt, SQL_ATTR_ROW_NUMBER, uintptr(unsafe.Pointer(&pos)), SQL_IS_UINTEGER, nil)
	if !IsSuccess(ret) {
		return 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLGetStmtAttr")
	}
	if pos == 0 {
		// Zero means "no current row", but drivers that number rows from
		// zero also report it on the first rowset; rows in hand win.
		if r.rows() > 0 && !r.atEnd {
			return r.rowsetPos + 1, nil
		}
		return 0, nil
	}
	return int(pos) + r.rowsetPos, nil
}

// AtEnd reports whether the cursor has moved past the last row.
func (r *Result) AtEnd() bool {
	return r.released || r.atEnd
}

// NextResult discards the current result set and advances to the next one
// produced by the same execution, rebinding buffers for the new column
// shape. It reports false when no result set remains.
func (r *Result) NextResult() (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	ret := MoreResults(r.hstmt)
	if ret == SQL_NO_DATA {
		return false, nil
	}
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLMoreResults")
	}
	if err := r.bindColumns(); err != nil {
		return false, err
	}
	return true, nil
}

// NextAsync starts advancing the cursor without blocking. event is an OS
// event handle the driver signals when the fetch finishes; the caller
// waits on it and then calls CompleteNext. A false return means the
// advance completed synchronously, and CompleteNext reports the row
// availability without touching the driver.
func (r *Result) NextAsync(event uintptr) (stillExecuting bool, err error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	if r.rows() > 0 {
		r.rowsetPos++
		if r.rowsetPos < r.rowsetSize {
			r.asyncRow = r.rowsetPos < r.rows()
			if !r.asyncRow {
				r.atEnd = true
			}
			return false, nil
		}
		r.rowsetPos = 0
	}
	if len(r.columns) == 0 {
		r.atEnd = true
		r.asyncRow = false
		return false, nil
	}

	if err := r.stmt.enableAsync(event); err != nil {
		return false, err
	}
	r.clearIndicators()

	ret := FetchScroll(r.hstmt, SQL_FETCH_NEXT, 0)
	if ret == SQL_STILL_EXECUTING {
		r.asyncPending = true
		return true, nil
	}
	r.stmt.disableAsync()
	if ret == SQL_NO_DATA {
		r.rowsFetched = 0
		r.atEnd = true
		r.asyncRow = false
		return false, nil
	}
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLFetchScroll")
	}

	r.rowsetPos = 0
	r.asyncRow = r.rows() > 0
	r.atEnd = !r.asyncRow
	return false, nil
}

// CompleteNext finishes an advance started by NextAsync after the event
// has been signaled and reports whether the cursor landed on a row.
func (r *Result) CompleteNext() (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	if !r.asyncPending {
		return r.asyncRow, nil
	}
	r.asyncPending = false

	var code SQLRETURN
	ret := CompleteAsync(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), &code)
	r.stmt.disableAsync()
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLCompleteAsync")
	}
	if code == SQL_NO_DATA {
		r.rowsFetched = 0
		r.atEnd = true
		return false, nil
	}
	if !IsSuccess(code) {
		return false, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLCompleteAsync")
	}

	r.rowsetPos = 0
	r.atEnd = false
	if r.rows() == 0 {
		r.atEnd = true
		return false, nil
	}
	return true, nil
}

// getDataCell reads one cell of the current row through the driver,
// chunking variable-length data. The returned indicator is SQL_NULL_DATA
// for null cells and the byte length otherwise.
func (r *Result) getDataCell(column int) ([]byte, SQLLEN, error) {
	col := &r.columns[column]
	colNum := SQLUSMALLINT(column + 1)

	// With a multi-row rowset the driver reads the rowset's first row
	// unless the cursor is positioned on the wanted one.
	if r.rowsetSize > 1 {
		ret := SetPos(r.hstmt, SQLSETPOSIROW(r.rowsetPos+1), SQL_POSITION, SQL_LOCK_NO_CHANGE)
		if !IsSuccess(ret) {
			return nil, 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLSetPos")
		}
	}

	// NUL terminator bytes the driver appends per chunk
	var reserve int
	switch col.ctype {
	case SQL_C_CHAR:
		reserve = 1
	case SQL_C_WCHAR:
		reserve = 2
	case SQL_C_BINARY:
		reserve = 0
	default:
		// Fixed-width cell: one full-size read.
		width := col.width
		if width == 0 {
			width = 16
		}
		buf := make([]byte, width)
		var ind SQLLEN
		ret := GetData(r.hstmt, colNum, col.ctype, uintptr(unsafe.Pointer(&buf[0])), SQLLEN(width), &ind)
		if !IsSuccess(ret) {
			return nil, 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLGetData")
		}
		return buf, ind, nil
	}

	chunk := col.width
	if chunk < 1024 {
		chunk = 1024
	}
	if chunk > 65536 {
		chunk = 65536
	}
	buf := make([]byte, chunk)

	var out []byte
	first := true
	for {
		var ind SQLLEN
		ret := GetData(r.hstmt, colNum, col.ctype, uintptr(unsafe.Pointer(&buf[0])), SQLLEN(len(buf)), &ind)
		if ret == SQL_NO_DATA {
			// An earlier call consumed the value
			break
		}
		if !IsSuccess(ret) {
			return nil, 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLGetData")
		}
		if first && ind == SQL_NULL_DATA {
			return nil, SQL_NULL_DATA, nil
		}

		// On a truncated chunk the indicator holds the remaining total
		// (or SQL_NO_TOTAL); on the final chunk it holds the byte count
		// actually delivered.
		space := len(buf) - reserve
		truncated := ret == SQL_SUCCESS_WITH_INFO && (ind == SQL_NO_TOTAL || int(ind) > space)
		got := space
		if !truncated {
			got = int(ind)
			if got < 0 {
				got = 0
			}
			if got > space {
				got = space
			}
		}
		out = append(out, buf[:got]...)
		if !truncated {
			break
		}
		first = false
	}
	return out, SQLLEN(len(out)), nil
}

// cell retrieves the natural Go value of column on the current row,
// reporting nulls separately, and records the indicator for unbound
// columns so later null checks see it.
func (r *Result) cell(column int) (interface{}, bool, error) {
	col := &r.columns[column]

	if col.bound {
		ind := col.inds[r.rowsetPos]
		if ind == SQL_NULL_DATA {
			return nil, true, nil
		}
		base := r.rowsetPos * col.width
		cell := col.data[base : base+col.width]
		switch col.ctype {
		case SQL_C_CHAR:
			if ind >= 0 && int(ind) < col.width {
				cell = cell[:int(ind)]
			} else {
				cell = trimNUL(cell)
			}
		case SQL_C_WCHAR:
			if ind >= 0 && int(ind) < col.width {
				cell = cell[:int(ind)]
			} else {
				cell = trimWideNUL(cell)
			}
		case SQL_C_BINARY:
			if ind >= 0 && int(ind) <= col.width {
				cell = cell[:int(ind)]
			}
		}
		v, err := cellValue(col.ctype, cell)
		return v, false, err
	}

	if data, ok := col.cache[r.rowsetPos]; ok {
		if col.inds[r.rowsetPos] == SQL_NULL_DATA {
			return nil, true, nil
		}
		v, err := cellValue(col.ctype, data)
		return v, false, err
	}

	data, ind, err := r.getDataCell(column)
	if err != nil {
		return nil, false, err
	}
	col.inds[r.rowsetPos] = ind
	if col.cache == nil {
		col.cache = make(map[int][]byte)
	}
	if ind == SQL_NULL_DATA {
		col.cache[r.rowsetPos] = nil
		return nil, true, nil
	}
	col.cache[r.rowsetPos] = data

	v, err := cellValue(col.ctype, data)
	return v, false, err
}

// Value returns the cell at column on the current row as its natural Go
// type: integers at the column's width, float32/float64, string, []byte,
// Date, Time, Timestamp, uuid.UUID, or bool. Null cells return nil.
func (r *Result) Value(column int) (interface{}, error) {
	if err := r.requireLive(); err != nil {
		return nil, err
	}
	if err := r.checkColumn(column); err != nil {
		return nil, err
	}
	if err := r.requireRow(); err != nil {
		return nil, err
	}
	v, isNull, err := r.cell(column)
	if err != nil || isNull {
		return nil, err
	}
	return v, nil
}

// ValueByName is Value with a column name lookup.
func (r *Result) ValueByName(name string) (interface{}, error) {
	column, err := r.Column(name)
	if err != nil {
		return nil, err
	}
	return r.Value(column)
}

// Get returns the cell at column on the current row converted to T. A
// null cell produces a NullAccessError; GetOr substitutes a fallback
// instead. Conversions follow the column's value: numeric types convert
// between one another, text parses into numerics, temporal and GUID
// types cross-convert with their text forms.
func Get[T any](r *Result, column int) (T, error) {
	var out T
	if err := r.requireLive(); err != nil {
		return out, err
	}
	if err := r.checkColumn(column); err != nil {
		return out, err
	}
	if err := r.requireRow(); err != nil {
		return out, err
	}
	v, isNull, err := r.cell(column)
	if err != nil {
		return out, err
	}
	if isNull {
		return out, &NullAccessError{Column: column, Name: r.columns[column].name}
	}
	if err := assignCell(&out, v); err != nil {
		return out, err
	}
	return out, nil
}

// GetOr is Get with a fallback value substituted for null cells.
func GetOr[T any](r *Result, column int, fallback T) (T, error) {
	v, err := Get[T](r, column)
	if err != nil {
		var nullErr *NullAccessError
		if errors.As(err, &nullErr) {
			return fallback, nil
		}
		return fallback, err
	}
	return v, nil
}

// GetByName is Get with a column name lookup.
func GetByName[T any](r *Result, name string) (T, error) {
	column, err := r.Column(name)
	if err != nil {
		var out T
		return out, err
	}
	return Get[T](r, column)
}

// IsNull reports whether the cell at column on the current row is null.
//
// For a column left unbound, either because its data is too wide to
// buffer or because Unbind detached it, the driver only reports the
// indicator when the cell itself is retrieved: until Get or Value has
// touched the cell on this row, IsNull reports false.
func (r *Result) IsNull(column int) (bool, error) {
	if err := r.requireLive(); err != nil {
		return false, err
	}
	if err := r.checkColumn(column); err != nil {
		return false, err
	}
	if err := r.requireRow(); err != nil {
		return false, err
	}
	return r.columns[column].inds[r.rowsetPos] == SQL_NULL_DATA, nil
}

// IsNullByName is IsNull with a column name lookup.
func (r *Result) IsNullByName(name string) (bool, error) {
	column, err := r.Column(name)
	if err != nil {
		return false, err
	}
	return r.IsNull(column)
}

// Unbind detaches every column's rowset buffer. Cells of the rows fetched
// afterwards are read from the driver on demand, which trades fetch
// round trips for memory. Unbinding is permanent for the result set.
func (r *Result) Unbind() error {
	if err := r.requireLive(); err != nil {
		return err
	}
	if len(r.columns) == 0 {
		return nil
	}
	if ret := FreeStmt(r.hstmt, SQL_UNBIND); !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLFreeStmt")
	}
	for i := range r.columns {
		col := &r.columns[i]
		col.bound = false
		col.data = nil
		col.cache = nil
	}
	return nil
}

// UnbindColumn detaches one column's rowset buffer; see Unbind. Unbinding
// an already unbound column is a no-op.
func (r *Result) UnbindColumn(column int) error {
	if err := r.requireLive(); err != nil {
		return err
	}
	if err := r.checkColumn(column); err != nil {
		return err
	}
	col := &r.columns[column]
	if !col.bound {
		return nil
	}
	if ret := BindCol(r.hstmt, SQLUSMALLINT(column+1), col.ctype, 0, 0, nil); !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLBindCol")
	}
	col.bound = false
	col.data = nil
	return nil
}

// Column resolves a column name to its zero-based index. Lookup is
// case-insensitive; an exact-case match wins when both exist.
func (r *Result) Column(name string) (int, error) {
	for i := range r.columns {
		if r.columns[i].name == name {
			return i, nil
		}
	}
	for i := range r.columns {
		if strings.EqualFold(r.columns[i].name, name) {
			return i, nil
		}
	}
	return 0, &IndexRangeError{Kind: "column", Name: name, Count: len(r.columns)}
}

// Columns returns the number of columns in the current result set.
func (r *Result) Columns() int {
	return len(r.columns)
}

// ColumnName returns the driver's name for the column.
func (r *Result) ColumnName(column int) (string, error) {
	if err := r.checkColumn(column); err != nil {
		return "", err
	}
	return r.columns[column].name, nil
}

// ColumnDatatype returns the column's SQL type code.
func (r *Result) ColumnDatatype(column int) (SQLSMALLINT, error) {
	if err := r.checkColumn(column); err != nil {
		return 0, err
	}
	return r.columns[column].sqltype, nil
}

// ColumnCDatatype returns the C buffer type the column's cells are read
// as.
func (r *Result) ColumnCDatatype(column int) (SQLSMALLINT, error) {
	if err := r.checkColumn(column); err != nil {
		return 0, err
	}
	return r.columns[column].ctype, nil
}

// ColumnDatatypeName returns the data source's own name for the column's
// type, such as "varchar"; when the driver cannot say, the protocol-level
// type name is returned instead.
func (r *Result) ColumnDatatypeName(column int) (string, error) {
	if err := r.checkColumn(column); err != nil {
		return "", err
	}
	if err := r.requireLive(); err != nil {
		return "", err
	}
	nameBuf := make([]byte, 256)
	strLen, _, ret := ColAttribute(r.hstmt, SQLUSMALLINT(column+1), SQL_DESC_TYPE_NAME, nameBuf)
	if IsSuccess(ret) && strLen > 0 {
		if int(strLen) > len(nameBuf) {
			strLen = SQLSMALLINT(len(nameBuf))
		}
		return string(trimNUL(nameBuf[:strLen])), nil
	}
	return SQLTypeName(r.columns[column].sqltype), nil
}

// ColumnSize returns the column size the driver described: character
// length for text, precision for numerics, byte length for binary.
func (r *Result) ColumnSize(column int) (int, error) {
	if err := r.checkColumn(column); err != nil {
		return 0, err
	}
	return int(r.columns[column].size), nil
}

// ColumnDecimalDigits returns the column's scale.
func (r *Result) ColumnDecimalDigits(column int) (int, error) {
	if err := r.checkColumn(column); err != nil {
		return 0, err
	}
	return int(r.columns[column].scale), nil
}

// ColumnNullable reports whether the column accepts nulls. Columns the
// driver cannot classify count as nullable.
func (r *Result) ColumnNullable(column int) (bool, error) {
	if err := r.checkColumn(column); err != nil {
		return false, err
	}
	return r.columns[column].nullable != SQL_NO_NULLS, nil
}

// ColumnBound reports whether the column reads from a rowset buffer
// rather than on-demand retrieval.
func (r *Result) ColumnBound(column int) (bool, error) {
	if err := r.checkColumn(column); err != nil {
		return false, err
	}
	return r.columns[column].bound, nil
}

// Rows returns the number of rows in the current rowset, not in the whole
// result set; drivers generally cannot count that without fetching it.
func (r *Result) Rows() int {
	return r.rows()
}

// RowsetSize returns the number of rows fetched per driver round trip.
func (r *Result) RowsetSize() int {
	return r.rowsetSize
}

// AffectedRows returns the driver's count of rows changed by the
// execution, or -1 when the driver cannot tell.
func (r *Result) AffectedRows() (int64, error) {
	if err := r.requireLive(); err != nil {
		return 0, err
	}
	var count SQLLEN
	if ret := RowCount(r.hstmt, &count); !IsSuccess(ret) {
		return 0, NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(r.hstmt), "SQLRowCount")
	}
	return int64(count), nil
}

// HasAffectedRows reports whether the driver reported a row count.
func (r *Result) HasAffectedRows() (bool, error) {
	count, err := r.AffectedRows()
	if err != nil {
		return false, err
	}
	return count >= 0, nil
}

// Valid reports whether the result carries a result set to iterate.
func (r *Result) Valid() bool {
	return !r.released && len(r.columns) > 0
}

// Statement returns the statement the result reads through.
func (r *Result) Statement() *Statement {
	return r.stmt
}

// NativeStmtHandle exposes the statement handle the cursor lives on.
func (r *Result) NativeStmtHandle() SQLHSTMT {
	return r.hstmt
}

// Close releases the cursor and, when the result owns its statement, the
// statement handle too. It is idempotent and never fails; the error
// return exists only to satisfy io.Closer.
func (r *Result) Close() error {
	if r.released {
		return nil
	}
	r.released = true

	if r.hstmt != 0 {
		// The driver must stop writing through the rowset buffers and the
		// fetched-rows pointer before they are collected.
		SetStmtAttr(r.hstmt, SQL_ATTR_ROWS_FETCHED_PTR, 0, SQL_IS_POINTER)
		FreeStmt(r.hstmt, SQL_UNBIND)
		CloseCursor(r.hstmt)
	}
	if r.ownStmt && r.stmt != nil {
		r.stmt.Close()
	}
	r.hstmt = 0
	return nil
}
