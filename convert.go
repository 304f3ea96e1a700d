package nanodbc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// The marshaling registry maps a closed set of host types onto protocol
// storage types. Every entry fixes the C buffer tag, the SQL type tag, and
// the sizing defaults used when the driver cannot describe a parameter.
// Dispatch is a static type switch; anything outside the set fails with
// TypeIncompatibleError before a native call is made.

// paramSpec describes how one host type crosses the driver boundary.
type paramSpec struct {
	ctype     SQLSMALLINT
	sqltype   SQLSMALLINT
	colSize   SQLULEN     // default column size when the driver reports none
	decDigits SQLSMALLINT // default decimal digits
	elemSize  int         // buffer stride; 0 for variable-width types
}

// paramSpecFor returns the registry entry for value's dynamic type.
func paramSpecFor(value interface{}) (paramSpec, error) {
	switch value.(type) {
	case bool:
		return paramSpec{SQL_C_BIT, SQL_BIT, 1, 0, 1}, nil
	case int8:
		return paramSpec{SQL_C_STINYINT, SQL_TINYINT, 4, 0, 1}, nil
	case int16:
		return paramSpec{SQL_C_SSHORT, SQL_SMALLINT, 6, 0, 2}, nil
	case int32:
		return paramSpec{SQL_C_SLONG, SQL_INTEGER, 11, 0, 4}, nil
	case int64, int, uint:
		return paramSpec{SQL_C_SBIGINT, SQL_BIGINT, 20, 0, 8}, nil
	case uint8:
		return paramSpec{SQL_C_UTINYINT, SQL_TINYINT, 3, 0, 1}, nil
	case uint16:
		return paramSpec{SQL_C_USHORT, SQL_SMALLINT, 5, 0, 2}, nil
	case uint32:
		return paramSpec{SQL_C_ULONG, SQL_INTEGER, 10, 0, 4}, nil
	case uint64:
		// Bound as a decimal string to avoid signed overflow
		return paramSpec{SQL_C_CHAR, SQL_VARCHAR, 20, 0, 0}, nil
	case float32:
		return paramSpec{SQL_C_FLOAT, SQL_REAL, 7, 0, 4}, nil
	case float64:
		return paramSpec{SQL_C_DOUBLE, SQL_DOUBLE, 15, 0, 8}, nil
	case string:
		return paramSpec{SQL_C_CHAR, SQL_VARCHAR, 0, 0, 0}, nil
	case WideString:
		return paramSpec{SQL_C_WCHAR, SQL_WVARCHAR, 0, 0, 0}, nil
	case []byte:
		return paramSpec{SQL_C_BINARY, SQL_VARBINARY, 0, 0, 0}, nil
	case time.Time:
		// Column size 23 and scale 3 match millisecond precision, the
		// widest setting older datetime columns accept.
		return paramSpec{SQL_C_TIMESTAMP, SQL_TYPE_TIMESTAMP, 23, 3, 16}, nil
	case Timestamp:
		return paramSpec{SQL_C_TIMESTAMP, SQL_TYPE_TIMESTAMP, 27, 7, 16}, nil
	case Date:
		return paramSpec{SQL_C_DATE, SQL_TYPE_DATE, 10, 0, 6}, nil
	case Time:
		return paramSpec{SQL_C_TIME, SQL_TYPE_TIME, 8, 0, 6}, nil
	case uuid.UUID:
		return paramSpec{SQL_C_GUID, SQL_GUID, 36, 0, 16}, nil
	default:
		return paramSpec{}, &TypeIncompatibleError{From: fmt.Sprintf("%T", value)}
	}
}

// paramData is a marshaled parameter batch ready for native binding: the
// column-wise data buffer, the parallel indicator array, and the layout
// the buffer was packed with.
type paramData struct {
	spec   paramSpec
	data   []byte
	inds   []SQLLEN
	stride int
	batch  int
}

// packBatch lays values out column-wise with a fixed stride. put writes one
// element and returns its indicator; isNull marks elements that travel as
// nulls and keep zeroed slots.
func packBatch[T any](vals []T, stride int, put func([]byte, T) SQLLEN, isNull func(int, T) bool) ([]byte, []SQLLEN) {
	data := make([]byte, stride*len(vals))
	inds := make([]SQLLEN, len(vals))
	for i, v := range vals {
		if isNull(i, v) {
			inds[i] = SQL_NULL_DATA
			continue
		}
		inds[i] = put(data[i*stride:(i+1)*stride], v)
	}
	return data, inds
}

// nullFuncEq builds the per-element null test for a batch from its mask,
// using eq for sentinel comparison.
func nullFuncEq[T any](m NullMask, batch int, eq func(T, T) bool) (func(int, T) bool, error) {
	switch m.kind {
	case nullsFlags:
		if len(m.flags) != batch {
			return nil, newProgrammingError("null flags length %d does not match batch length %d", len(m.flags), batch)
		}
		flags := m.flags
		return func(i int, _ T) bool { return flags[i] }, nil
	case nullsSentinel:
		s, ok := m.sentinel.(T)
		if !ok {
			return nil, newProgrammingError("null sentinel type %T does not match batch element type %T", m.sentinel, *new(T))
		}
		return func(_ int, v T) bool { return eq(v, s) }, nil
	default:
		return func(int, T) bool { return false }, nil
	}
}

func nullFuncFor[T comparable](m NullMask, batch int) (func(int, T) bool, error) {
	return nullFuncEq(m, batch, func(a, b T) bool { return a == b })
}

// packFixed marshals a fixed-width batch under the registry entry spec.
func packFixed[T any](vals []T, spec paramSpec, m NullMask, put func([]byte, T) SQLLEN, eq func(T, T) bool) (*paramData, error) {
	isNull, err := nullFuncEq(m, len(vals), eq)
	if err != nil {
		return nil, err
	}
	data, inds := packBatch(vals, spec.elemSize, put, isNull)
	return &paramData{spec: spec, data: data, inds: inds, stride: spec.elemSize, batch: len(vals)}, nil
}

func packComparable[T comparable](vals []T, spec paramSpec, m NullMask, put func([]byte, T) SQLLEN) (*paramData, error) {
	return packFixed(vals, spec, m, put, func(a, b T) bool { return a == b })
}

// encodeBatch marshals a batch of host values into a column-wise buffer
// with a parallel indicator array. width declares the slot width for
// variable-length element types: characters for strings, bytes for binary.
// Zero width sizes slots from the longest element; a declared width
// rejects elements that would not fit.
func encodeBatch(values interface{}, width int, m NullMask) (*paramData, error) {
	switch vals := values.(type) {
	case []bool:
		spec, _ := paramSpecFor(false)
		return packComparable(vals, spec, m, putBool)
	case []int8:
		spec, _ := paramSpecFor(int8(0))
		return packComparable(vals, spec, m, putInt8)
	case []int16:
		spec, _ := paramSpecFor(int16(0))
		return packComparable(vals, spec, m, putInt16)
	case []int32:
		spec, _ := paramSpecFor(int32(0))
		return packComparable(vals, spec, m, putInt32)
	case []int64:
		spec, _ := paramSpecFor(int64(0))
		return packComparable(vals, spec, m, putInt64)
	case []int:
		spec, _ := paramSpecFor(0)
		return packComparable(vals, spec, m, func(dst []byte, v int) SQLLEN { return putInt64(dst, int64(v)) })
	case []uint8:
		// []uint8 is []byte: a single binary value, not a batch
		return nil, &TypeIncompatibleError{From: "[]byte", To: "batch (use a [][]byte binary batch)"}
	case []uint16:
		spec, _ := paramSpecFor(uint16(0))
		return packComparable(vals, spec, m, putUint16)
	case []uint32:
		spec, _ := paramSpecFor(uint32(0))
		return packComparable(vals, spec, m, putUint32)
	case []uint:
		spec, _ := paramSpecFor(uint(0))
		return packComparable(vals, spec, m, func(dst []byte, v uint) SQLLEN { return putInt64(dst, int64(v)) })
	case []uint64:
		return encodeUint64Batch(vals, m)
	case []float32:
		spec, _ := paramSpecFor(float32(0))
		return packComparable(vals, spec, m, putFloat32)
	case []float64:
		spec, _ := paramSpecFor(float64(0))
		return packComparable(vals, spec, m, putFloat64)
	case []string:
		return encodeStringBatch(vals, width, m)
	case []WideString:
		return encodeWideBatch(vals, width, m)
	case [][]byte:
		return encodeBinaryBatch(vals, width, m)
	case []time.Time:
		spec, _ := paramSpecFor(time.Time{})
		return packFixed(vals, spec, m,
			func(dst []byte, v time.Time) SQLLEN { return putTimestamp(dst, timestampOf(v)) },
			func(a, b time.Time) bool { return a.Equal(b) })
	case []Timestamp:
		spec, _ := paramSpecFor(Timestamp{})
		return packComparable(vals, spec, m, putTimestamp)
	case []Date:
		spec, _ := paramSpecFor(Date{})
		return packComparable(vals, spec, m, putDate)
	case []Time:
		spec, _ := paramSpecFor(Time{})
		return packComparable(vals, spec, m, putTime)
	case []uuid.UUID:
		spec, _ := paramSpecFor(uuid.UUID{})
		return packComparable(vals, spec, m, putGUID)
	default:
		return nil, &TypeIncompatibleError{From: fmt.Sprintf("%T", values)}
	}
}

func encodeUint64Batch(vals []uint64, m NullMask) (*paramData, error) {
	spec, _ := paramSpecFor(uint64(0))
	strs := make([]string, len(vals))
	maxLen := 1
	for i, v := range vals {
		strs[i] = strconv.FormatUint(v, 10)
		if len(strs[i]) > maxLen {
			maxLen = len(strs[i])
		}
	}
	isNull, err := nullFuncFor[uint64](m, len(vals))
	if err != nil {
		return nil, err
	}
	stride := maxLen + 1
	data := make([]byte, stride*len(vals))
	inds := make([]SQLLEN, len(vals))
	for i := range vals {
		if isNull(i, vals[i]) {
			inds[i] = SQL_NULL_DATA
			continue
		}
		copy(data[i*stride:], strs[i])
		inds[i] = SQLLEN(len(strs[i]))
	}
	spec.colSize = SQLULEN(maxLen)
	return &paramData{spec: spec, data: data, inds: inds, stride: stride, batch: len(vals)}, nil
}

// encodeStringBatch lays narrow strings into fixed-stride slots with room
// for a terminator. A declared width rejects longer values instead of
// truncating them.
func encodeStringBatch(vals []string, width int, m NullMask) (*paramData, error) {
	spec, _ := paramSpecFor("")
	maxLen := width
	for i, v := range vals {
		if width > 0 && len(v) > width {
			return nil, newProgrammingError("string element %d has length %d, wider than the declared width %d", i, len(v), width)
		}
		if width == 0 && len(v) > maxLen {
			maxLen = len(v)
		}
	}
	isNull, err := nullFuncFor[string](m, len(vals))
	if err != nil {
		return nil, err
	}
	if maxLen < 1 {
		maxLen = 1
	}
	stride := maxLen + 1
	data := make([]byte, stride*len(vals))
	inds := make([]SQLLEN, len(vals))
	for i, v := range vals {
		if isNull(i, v) {
			inds[i] = SQL_NULL_DATA
			continue
		}
		copy(data[i*stride:], v)
		inds[i] = SQLLEN(len(v))
	}
	spec.colSize = SQLULEN(maxLen)
	return &paramData{spec: spec, data: data, inds: inds, stride: stride, batch: len(vals)}, nil
}

// encodeWideBatch is the UTF-16 counterpart of encodeStringBatch. width is
// measured in UTF-16 code units.
func encodeWideBatch(vals []WideString, width int, m NullMask) (*paramData, error) {
	spec, _ := paramSpecFor(WideString(""))
	encoded := make([][]byte, len(vals))
	maxUnits := width
	for i, v := range vals {
		enc, err := encodeWide(string(v))
		if err != nil {
			return nil, &TypeIncompatibleError{From: "WideString", To: "UTF-16"}
		}
		units := len(enc) / 2
		if width > 0 && units > width {
			return nil, newProgrammingError("wide string element %d has length %d, wider than the declared width %d", i, units, width)
		}
		if width == 0 && units > maxUnits {
			maxUnits = units
		}
		encoded[i] = enc
	}
	isNull, err := nullFuncFor[WideString](m, len(vals))
	if err != nil {
		return nil, err
	}
	if maxUnits < 1 {
		maxUnits = 1
	}
	stride := (maxUnits + 1) * 2
	data := make([]byte, stride*len(vals))
	inds := make([]SQLLEN, len(vals))
	for i, v := range vals {
		if isNull(i, v) {
			inds[i] = SQL_NULL_DATA
			continue
		}
		copy(data[i*stride:], encoded[i])
		inds[i] = SQLLEN(len(encoded[i]))
	}
	spec.colSize = SQLULEN(maxUnits)
	return &paramData{spec: spec, data: data, inds: inds, stride: stride, batch: len(vals)}, nil
}

// encodeBinaryBatch lays byte slices into fixed-stride slots with
// per-element lengths. width declares the slot width in bytes.
func encodeBinaryBatch(vals [][]byte, width int, m NullMask) (*paramData, error) {
	spec, _ := paramSpecFor([]byte(nil))
	maxLen := width
	for i, v := range vals {
		if width > 0 && len(v) > width {
			return nil, newProgrammingError("binary element %d has length %d, wider than the declared width %d", i, len(v), width)
		}
		if width == 0 && len(v) > maxLen {
			maxLen = len(v)
		}
	}
	isNull, err := nullFuncEq(m, len(vals), func(a, b []byte) bool { return bytes.Equal(a, b) })
	if err != nil {
		return nil, err
	}
	if maxLen < 1 {
		maxLen = 1
	}
	data := make([]byte, maxLen*len(vals))
	inds := make([]SQLLEN, len(vals))
	for i, v := range vals {
		if isNull(i, v) {
			inds[i] = SQL_NULL_DATA
			continue
		}
		copy(data[i*maxLen:], v)
		inds[i] = SQLLEN(len(v))
	}
	spec.colSize = SQLULEN(maxLen)
	return &paramData{spec: spec, data: data, inds: inds, stride: maxLen, batch: len(vals)}, nil
}

// encodeValue marshals a single host value as a batch of one.
func encodeValue(value interface{}) (*paramData, error) {
	if value == nil {
		spec, _ := paramSpecFor("")
		spec.colSize = 1
		return &paramData{spec: spec, data: make([]byte, 1), inds: []SQLLEN{SQL_NULL_DATA}, stride: 1, batch: 1}, nil
	}
	switch v := value.(type) {
	case bool:
		return encodeBatch([]bool{v}, 0, NoNulls())
	case int8:
		return encodeBatch([]int8{v}, 0, NoNulls())
	case int16:
		return encodeBatch([]int16{v}, 0, NoNulls())
	case int32:
		return encodeBatch([]int32{v}, 0, NoNulls())
	case int64:
		return encodeBatch([]int64{v}, 0, NoNulls())
	case int:
		return encodeBatch([]int{v}, 0, NoNulls())
	case uint8:
		spec, _ := paramSpecFor(v)
		return packComparable([]uint8{v}, spec, NoNulls(), putUint8)
	case uint16:
		return encodeBatch([]uint16{v}, 0, NoNulls())
	case uint32:
		return encodeBatch([]uint32{v}, 0, NoNulls())
	case uint:
		return encodeBatch([]uint{v}, 0, NoNulls())
	case uint64:
		return encodeBatch([]uint64{v}, 0, NoNulls())
	case float32:
		return encodeBatch([]float32{v}, 0, NoNulls())
	case float64:
		return encodeBatch([]float64{v}, 0, NoNulls())
	case string:
		return encodeBatch([]string{v}, 0, NoNulls())
	case WideString:
		return encodeBatch([]WideString{v}, 0, NoNulls())
	case []byte:
		return encodeBinaryBatch([][]byte{v}, 0, NoNulls())
	case time.Time:
		return encodeBatch([]time.Time{v}, 0, NoNulls())
	case Timestamp:
		return encodeBatch([]Timestamp{v}, 0, NoNulls())
	case Date:
		return encodeBatch([]Date{v}, 0, NoNulls())
	case Time:
		return encodeBatch([]Time{v}, 0, NoNulls())
	case uuid.UUID:
		return encodeBatch([]uuid.UUID{v}, 0, NoNulls())
	default:
		return nil, &TypeIncompatibleError{From: fmt.Sprintf("%T", value)}
	}
}

// =============================================================================
// Buffer primitives
// =============================================================================

func putBool(dst []byte, v bool) SQLLEN {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	return 1
}

func putInt8(dst []byte, v int8) SQLLEN {
	dst[0] = byte(v)
	return 1
}

func putUint8(dst []byte, v uint8) SQLLEN {
	dst[0] = v
	return 1
}

func putInt16(dst []byte, v int16) SQLLEN {
	*(*int16)(unsafe.Pointer(&dst[0])) = v
	return 2
}

func putUint16(dst []byte, v uint16) SQLLEN {
	*(*uint16)(unsafe.Pointer(&dst[0])) = v
	return 2
}

func putInt32(dst []byte, v int32) SQLLEN {
	*(*int32)(unsafe.Pointer(&dst[0])) = v
	return 4
}

func putUint32(dst []byte, v uint32) SQLLEN {
	*(*uint32)(unsafe.Pointer(&dst[0])) = v
	return 4
}

func putInt64(dst []byte, v int64) SQLLEN {
	*(*int64)(unsafe.Pointer(&dst[0])) = v
	return 8
}

func putFloat32(dst []byte, v float32) SQLLEN {
	*(*float32)(unsafe.Pointer(&dst[0])) = v
	return 4
}

func putFloat64(dst []byte, v float64) SQLLEN {
	*(*float64)(unsafe.Pointer(&dst[0])) = v
	return 8
}

func putDate(dst []byte, v Date) SQLLEN {
	*(*Date)(unsafe.Pointer(&dst[0])) = v
	return SQLLEN(unsafe.Sizeof(v))
}

func putTime(dst []byte, v Time) SQLLEN {
	*(*Time)(unsafe.Pointer(&dst[0])) = v
	return SQLLEN(unsafe.Sizeof(v))
}

func putTimestamp(dst []byte, v Timestamp) SQLLEN {
	*(*Timestamp)(unsafe.Pointer(&dst[0])) = v
	return SQLLEN(unsafe.Sizeof(v))
}

// putGUID writes the driver's GUID structure: the first three fields are
// native-endian integers while the trailing eight bytes stay in network
// order, so the RFC 4122 byte form needs reshuffling.
func putGUID(dst []byte, v uuid.UUID) SQLLEN {
	putUint32(dst[0:], uint32(v[0])<<24|uint32(v[1])<<16|uint32(v[2])<<8|uint32(v[3]))
	putUint16(dst[4:], uint16(v[4])<<8|uint16(v[5]))
	putUint16(dst[6:], uint16(v[6])<<8|uint16(v[7]))
	copy(dst[8:16], v[8:16])
	return 16
}

func getInt16(src []byte) int16 {
	return *(*int16)(unsafe.Pointer(&src[0]))
}

func getUint16(src []byte) uint16 {
	return *(*uint16)(unsafe.Pointer(&src[0]))
}

func getInt32(src []byte) int32 {
	return *(*int32)(unsafe.Pointer(&src[0]))
}

func getUint32(src []byte) uint32 {
	return *(*uint32)(unsafe.Pointer(&src[0]))
}

func getInt64(src []byte) int64 {
	return *(*int64)(unsafe.Pointer(&src[0]))
}

func getUint64(src []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&src[0]))
}

func getFloat32(src []byte) float32 {
	return *(*float32)(unsafe.Pointer(&src[0]))
}

func getFloat64(src []byte) float64 {
	return *(*float64)(unsafe.Pointer(&src[0]))
}

func getDate(src []byte) Date {
	return *(*Date)(unsafe.Pointer(&src[0]))
}

func getTime(src []byte) Time {
	return *(*Time)(unsafe.Pointer(&src[0]))
}

func getTimestamp(src []byte) Timestamp {
	return *(*Timestamp)(unsafe.Pointer(&src[0]))
}

func getGUID(src []byte) uuid.UUID {
	var u uuid.UUID
	d1 := getUint32(src[0:])
	d2 := getUint16(src[4:])
	d3 := getUint16(src[6:])
	u[0], u[1], u[2], u[3] = byte(d1>>24), byte(d1>>16), byte(d1>>8), byte(d1)
	u[4], u[5] = byte(d2>>8), byte(d2)
	u[6], u[7] = byte(d3>>8), byte(d3)
	copy(u[8:], src[8:16])
	return u
}

// =============================================================================
// Temporal conversions
// =============================================================================

// timestampOf converts a time.Time for binding, truncating the fraction to
// milliseconds so servers with coarser datetime columns accept it.
func timestampOf(t time.Time) Timestamp {
	return Timestamp{
		Year:  int16(t.Year()),
		Month: uint16(t.Month()),
		Day:   uint16(t.Day()),
		Hour:  uint16(t.Hour()),
		Min:   uint16(t.Minute()),
		Sec:   uint16(t.Second()),
		Fract: uint32((t.Nanosecond() / 1_000_000) * 1_000_000),
	}
}

func timestampTime(ts Timestamp) time.Time {
	return time.Date(int(ts.Year), time.Month(ts.Month), int(ts.Day),
		int(ts.Hour), int(ts.Min), int(ts.Sec), int(ts.Fract), time.UTC)
}

func dateOf(t time.Time) Date {
	return Date{Year: int16(t.Year()), Month: uint16(t.Month()), Day: uint16(t.Day())}
}

func dateTime(d Date) time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

func clockOf(t time.Time) Time {
	return Time{Hour: uint16(t.Hour()), Min: uint16(t.Minute()), Sec: uint16(t.Second())}
}

func clockTime(tm Time) time.Time {
	return time.Date(1970, time.January, 1, int(tm.Hour), int(tm.Min), int(tm.Sec), 0, time.UTC)
}

func formatDate(d Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func formatTime(t Time) string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Min, t.Sec)
}

func formatTimestamp(ts Timestamp) string {
	if ts.Fract == 0 {
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Min, ts.Sec)
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%09d", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Min, ts.Sec, ts.Fract)
}

// =============================================================================
// Column buffer layout
// =============================================================================

// maxBoundColumnBytes is the widest per-row buffer a column gets before
// retrieval falls back to on-demand chunked reads.
const maxBoundColumnBytes = 1024

// columnBinding decides how a described column is represented in rowset
// buffers: the C type requested from the driver, the per-row byte width,
// and whether the column is buffer-bound at all. Unbounded and oversized
// columns stay unbound and are read on demand.
func columnBinding(sqltype SQLSMALLINT, colSize SQLULEN, scale SQLSMALLINT) (ctype SQLSMALLINT, width int, bound bool) {
	switch sqltype {
	case SQL_BIT, SQL_BOOLEAN:
		return SQL_C_BIT, 1, true
	case SQL_TINYINT:
		return SQL_C_STINYINT, 1, true
	case SQL_SMALLINT:
		return SQL_C_SSHORT, 2, true
	case SQL_INTEGER:
		return SQL_C_SLONG, 4, true
	case SQL_BIGINT:
		return SQL_C_SBIGINT, 8, true
	case SQL_REAL:
		return SQL_C_FLOAT, 4, true
	case SQL_FLOAT, SQL_DOUBLE:
		return SQL_C_DOUBLE, 8, true
	case SQL_DECIMAL, SQL_NUMERIC:
		// Fetched as text to preserve precision: digits, sign, point,
		// terminator.
		w := int(colSize) + int(scale) + 3
		return SQL_C_CHAR, w, w <= maxBoundColumnBytes
	case SQL_TYPE_DATE:
		return SQL_C_DATE, 6, true
	case SQL_TYPE_TIME:
		return SQL_C_TIME, 6, true
	case SQL_TYPE_TIMESTAMP, SQL_DATETIME:
		return SQL_C_TIMESTAMP, 16, true
	case SQL_GUID:
		return SQL_C_GUID, 16, true
	case SQL_CHAR, SQL_VARCHAR:
		if colSize == 0 {
			return SQL_C_CHAR, 0, false
		}
		w := int(colSize) + 1
		return SQL_C_CHAR, w, w <= maxBoundColumnBytes
	case SQL_WCHAR, SQL_WVARCHAR:
		if colSize == 0 {
			return SQL_C_WCHAR, 0, false
		}
		w := (int(colSize) + 1) * 2
		return SQL_C_WCHAR, w, w <= maxBoundColumnBytes
	case SQL_BINARY, SQL_VARBINARY:
		if colSize == 0 {
			return SQL_C_BINARY, 0, false
		}
		w := int(colSize)
		return SQL_C_BINARY, w, w <= maxBoundColumnBytes
	case SQL_LONGVARCHAR:
		return SQL_C_CHAR, 0, false
	case SQL_WLONGVARCHAR:
		return SQL_C_WCHAR, 0, false
	case SQL_LONGVARBINARY:
		return SQL_C_BINARY, 0, false
	default:
		// Unknown types are read on demand as text
		return SQL_C_CHAR, 0, false
	}
}

// =============================================================================
// Cell decoding and host conversions
// =============================================================================

// cellValue decodes raw cell bytes into the natural Go value for the
// column's C type. Variable-length cells arrive already sliced to their
// indicator length.
func cellValue(ctype SQLSMALLINT, cell []byte) (interface{}, error) {
	switch ctype {
	case SQL_C_BIT:
		return cell[0] != 0, nil
	case SQL_C_STINYINT:
		return int8(cell[0]), nil
	case SQL_C_UTINYINT:
		return cell[0], nil
	case SQL_C_SSHORT:
		return getInt16(cell), nil
	case SQL_C_USHORT:
		return getUint16(cell), nil
	case SQL_C_SLONG:
		return getInt32(cell), nil
	case SQL_C_ULONG:
		return getUint32(cell), nil
	case SQL_C_SBIGINT:
		return getInt64(cell), nil
	case SQL_C_UBIGINT:
		return getUint64(cell), nil
	case SQL_C_FLOAT:
		return getFloat32(cell), nil
	case SQL_C_DOUBLE:
		return getFloat64(cell), nil
	case SQL_C_DATE:
		return getDate(cell), nil
	case SQL_C_TIME:
		return getTime(cell), nil
	case SQL_C_TIMESTAMP:
		return getTimestamp(cell), nil
	case SQL_C_GUID:
		return getGUID(cell), nil
	case SQL_C_CHAR:
		return string(trimNUL(cell)), nil
	case SQL_C_WCHAR:
		s, err := decodeWide(trimWideNUL(cell))
		if err != nil {
			return nil, &TypeIncompatibleError{From: "WCHAR data", To: "string"}
		}
		return s, nil
	case SQL_C_BINARY:
		out := make([]byte, len(cell))
		copy(out, cell)
		return out, nil
	default:
		return nil, &TypeIncompatibleError{From: fmt.Sprintf("C type %d", ctype), To: "host value"}
	}
}

func trimNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

func trimWideNUL(b []byte) []byte {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i]
		}
	}
	return b
}

// toInt64 converts a natural cell value to int64 the way the protocol
// would: floats truncate, bits widen, text parses.
func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int8:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint64:
		return int64(x), nil
	case float32:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, &TypeIncompatibleError{From: fmt.Sprintf("string %q", x), To: "integer"}
		}
		return n, nil
	default:
		return 0, &TypeIncompatibleError{From: fmt.Sprintf("%T", v), To: "integer"}
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int8:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, &TypeIncompatibleError{From: fmt.Sprintf("string %q", x), To: "float"}
		}
		return f, nil
	default:
		return 0, &TypeIncompatibleError{From: fmt.Sprintf("%T", v), To: "float"}
	}
}

func toGoString(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case Date:
		return formatDate(x), nil
	case Time:
		return formatTime(x), nil
	case Timestamp:
		return formatTimestamp(x), nil
	case time.Time:
		return x.Format("2006-01-02 15:04:05.999999999"), nil
	case uuid.UUID:
		return x.String(), nil
	default:
		return "", &TypeIncompatibleError{From: fmt.Sprintf("%T", v), To: "string"}
	}
}

func toTimeValue(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case Timestamp:
		return timestampTime(x), nil
	case Date:
		return dateTime(x), nil
	case Time:
		return clockTime(x), nil
	default:
		return time.Time{}, &TypeIncompatibleError{From: fmt.Sprintf("%T", v), To: "time.Time"}
	}
}

// assignCell converts a natural cell value into the destination pointer's
// type. It is the single conversion table behind typed result access and
// output parameter write-back; unsupported pairings fail with
// TypeIncompatibleError.
func assignCell(dest interface{}, natural interface{}) error {
	switch d := dest.(type) {
	case *interface{}:
		*d = natural
		return nil
	case *bool:
		switch x := natural.(type) {
		case bool:
			*d = x
			return nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return &TypeIncompatibleError{From: fmt.Sprintf("string %q", x), To: "bool"}
			}
			*d = b
			return nil
		}
		n, err := toInt64(natural)
		if err != nil {
			return &TypeIncompatibleError{From: fmt.Sprintf("%T", natural), To: "bool"}
		}
		*d = n != 0
		return nil
	case *int8:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = int8(n)
		return nil
	case *int16:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = int16(n)
		return nil
	case *int32:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = int32(n)
		return nil
	case *int64:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = n
		return nil
	case *int:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = int(n)
		return nil
	case *uint8:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = uint8(n)
		return nil
	case *uint16:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = uint16(n)
		return nil
	case *uint32:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = uint32(n)
		return nil
	case *uint64:
		if s, ok := natural.(string); ok {
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return &TypeIncompatibleError{From: fmt.Sprintf("string %q", s), To: "uint64"}
			}
			*d = n
			return nil
		}
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = uint64(n)
		return nil
	case *uint:
		n, err := toInt64(natural)
		if err != nil {
			return err
		}
		*d = uint(n)
		return nil
	case *float32:
		f, err := toFloat64(natural)
		if err != nil {
			return err
		}
		*d = float32(f)
		return nil
	case *float64:
		f, err := toFloat64(natural)
		if err != nil {
			return err
		}
		*d = f
		return nil
	case *string:
		s, err := toGoString(natural)
		if err != nil {
			return err
		}
		*d = s
		return nil
	case *WideString:
		s, err := toGoString(natural)
		if err != nil {
			return err
		}
		*d = WideString(s)
		return nil
	case *[]byte:
		switch x := natural.(type) {
		case []byte:
			out := make([]byte, len(x))
			copy(out, x)
			*d = out
			return nil
		case string:
			*d = []byte(x)
			return nil
		}
		return &TypeIncompatibleError{From: fmt.Sprintf("%T", natural), To: "[]byte"}
	case *time.Time:
		t, err := toTimeValue(natural)
		if err != nil {
			return err
		}
		*d = t
		return nil
	case *Date:
		switch x := natural.(type) {
		case Date:
			*d = x
			return nil
		case Timestamp:
			*d = Date{Year: x.Year, Month: x.Month, Day: x.Day}
			return nil
		case time.Time:
			*d = dateOf(x)
			return nil
		}
		return &TypeIncompatibleError{From: fmt.Sprintf("%T", natural), To: "Date"}
	case *Time:
		switch x := natural.(type) {
		case Time:
			*d = x
			return nil
		case Timestamp:
			*d = Time{Hour: x.Hour, Min: x.Min, Sec: x.Sec}
			return nil
		case time.Time:
			*d = clockOf(x)
			return nil
		}
		return &TypeIncompatibleError{From: fmt.Sprintf("%T", natural), To: "Time"}
	case *Timestamp:
		switch x := natural.(type) {
		case Timestamp:
			*d = x
			return nil
		case Date:
			*d = Timestamp{Year: x.Year, Month: x.Month, Day: x.Day}
			return nil
		case time.Time:
			*d = Timestamp{
				Year:  int16(x.Year()),
				Month: uint16(x.Month()),
				Day:   uint16(x.Day()),
				Hour:  uint16(x.Hour()),
				Min:   uint16(x.Minute()),
				Sec:   uint16(x.Second()),
				Fract: uint32(x.Nanosecond()),
			}
			return nil
		}
		return &TypeIncompatibleError{From: fmt.Sprintf("%T", natural), To: "Timestamp"}
	case *uuid.UUID:
		switch x := natural.(type) {
		case uuid.UUID:
			*d = x
			return nil
		case string:
			u, err := uuid.Parse(strings.TrimSpace(x))
			if err != nil {
				return &TypeIncompatibleError{From: fmt.Sprintf("string %q", x), To: "uuid.UUID"}
			}
			*d = u
			return nil
		case []byte:
			u, err := uuid.FromBytes(x)
			if err != nil {
				return &TypeIncompatibleError{From: "[]byte", To: "uuid.UUID"}
			}
			*d = u
			return nil
		}
		return &TypeIncompatibleError{From: fmt.Sprintf("%T", natural), To: "uuid.UUID"}
	default:
		return &TypeIncompatibleError{From: fmt.Sprintf("%T", natural), To: fmt.Sprintf("%T", dest)}
	}
}

// SQLTypeName returns a human-readable name for an SQL type
func SQLTypeName(sqlType SQLSMALLINT) string {
	switch sqlType {
	case SQL_CHAR:
		return "CHAR"
	case SQL_VARCHAR:
		return "VARCHAR"
	case SQL_LONGVARCHAR:
		return "LONGVARCHAR"
	case SQL_WCHAR:
		return "WCHAR"
	case SQL_WVARCHAR:
		return "WVARCHAR"
	case SQL_WLONGVARCHAR:
		return "WLONGVARCHAR"
	case SQL_DECIMAL:
		return "DECIMAL"
	case SQL_NUMERIC:
		return "NUMERIC"
	case SQL_SMALLINT:
		return "SMALLINT"
	case SQL_INTEGER:
		return "INTEGER"
	case SQL_REAL:
		return "REAL"
	case SQL_FLOAT:
		return "FLOAT"
	case SQL_DOUBLE:
		return "DOUBLE"
	case SQL_BIT:
		return "BIT"
	case SQL_BOOLEAN:
		return "BOOLEAN"
	case SQL_TINYINT:
		return "TINYINT"
	case SQL_BIGINT:
		return "BIGINT"
	case SQL_BINARY:
		return "BINARY"
	case SQL_VARBINARY:
		return "VARBINARY"
	case SQL_LONGVARBINARY:
		return "LONGVARBINARY"
	case SQL_TYPE_DATE:
		return "DATE"
	case SQL_TYPE_TIME:
		return "TIME"
	case SQL_TYPE_TIMESTAMP:
		return "TIMESTAMP"
	case SQL_DATETIME:
		return "DATETIME"
	case SQL_GUID:
		return "GUID"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", sqlType)
	}
}
