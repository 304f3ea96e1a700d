package nanodbc

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Parameter Registry Tests
// =============================================================================

func TestParamSpecFor(t *testing.T) {
	tests := []struct {
		input    interface{}
		ctype    SQLSMALLINT
		sqltype  SQLSMALLINT
		elemSize int
	}{
		{true, SQL_C_BIT, SQL_BIT, 1},
		{int8(1), SQL_C_STINYINT, SQL_TINYINT, 1},
		{int16(1), SQL_C_SSHORT, SQL_SMALLINT, 2},
		{int32(1), SQL_C_SLONG, SQL_INTEGER, 4},
		{int64(1), SQL_C_SBIGINT, SQL_BIGINT, 8},
		{int(1), SQL_C_SBIGINT, SQL_BIGINT, 8},
		{uint8(1), SQL_C_UTINYINT, SQL_TINYINT, 1},
		{uint16(1), SQL_C_USHORT, SQL_SMALLINT, 2},
		{uint32(1), SQL_C_ULONG, SQL_INTEGER, 4},
		{uint(1), SQL_C_SBIGINT, SQL_BIGINT, 8},
		{uint64(1), SQL_C_CHAR, SQL_VARCHAR, 0},
		{float32(1), SQL_C_FLOAT, SQL_REAL, 4},
		{float64(1), SQL_C_DOUBLE, SQL_DOUBLE, 8},
		{"", SQL_C_CHAR, SQL_VARCHAR, 0},
		{WideString(""), SQL_C_WCHAR, SQL_WVARCHAR, 0},
		{[]byte(nil), SQL_C_BINARY, SQL_VARBINARY, 0},
		{time.Time{}, SQL_C_TIMESTAMP, SQL_TYPE_TIMESTAMP, 16},
		{Timestamp{}, SQL_C_TIMESTAMP, SQL_TYPE_TIMESTAMP, 16},
		{Date{}, SQL_C_DATE, SQL_TYPE_DATE, 6},
		{Time{}, SQL_C_TIME, SQL_TYPE_TIME, 6},
		{uuid.UUID{}, SQL_C_GUID, SQL_GUID, 16},
	}

	for _, tt := range tests {
		spec, err := paramSpecFor(tt.input)
		if err != nil {
			t.Fatalf("unexpected error for %T: %v", tt.input, err)
		}
		if spec.ctype != tt.ctype {
			t.Errorf("input %T: expected ctype %d, got %d", tt.input, tt.ctype, spec.ctype)
		}
		if spec.sqltype != tt.sqltype {
			t.Errorf("input %T: expected sqltype %d, got %d", tt.input, tt.sqltype, spec.sqltype)
		}
		if spec.elemSize != tt.elemSize {
			t.Errorf("input %T: expected elemSize %d, got %d", tt.input, tt.elemSize, spec.elemSize)
		}
	}
}

func TestParamSpecFor_Unsupported(t *testing.T) {
	_, err := paramSpecFor(make(chan int))
	var tie *TypeIncompatibleError
	if !errors.As(err, &tie) {
		t.Fatalf("expected TypeIncompatibleError, got %v", err)
	}
	if tie.From != "chan int" {
		t.Errorf("expected From %q, got %q", "chan int", tie.From)
	}
}

// =============================================================================
// Single Value Marshaling Tests
// =============================================================================

func TestEncodeValue_Nil(t *testing.T) {
	pd, err := encodeValue(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.batch != 1 {
		t.Errorf("expected batch 1, got %d", pd.batch)
	}
	if pd.inds[0] != SQL_NULL_DATA {
		t.Errorf("expected SQL_NULL_DATA indicator, got %d", pd.inds[0])
	}
	if pd.spec.ctype != SQL_C_CHAR || pd.spec.sqltype != SQL_VARCHAR {
		t.Errorf("expected CHAR/VARCHAR null binding, got %d/%d", pd.spec.ctype, pd.spec.sqltype)
	}
}

func TestEncodeValue_String(t *testing.T) {
	pd, err := encodeValue("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Slot holds the text plus a NUL terminator.
	if pd.stride != 6 {
		t.Errorf("expected stride 6, got %d", pd.stride)
	}
	if got := string(pd.data[:5]); got != "hello" {
		t.Errorf("expected %q in buffer, got %q", "hello", got)
	}
	if pd.data[5] != 0 {
		t.Errorf("expected NUL terminator, got %d", pd.data[5])
	}
	if pd.inds[0] != 5 {
		t.Errorf("expected indicator 5, got %d", pd.inds[0])
	}
	if pd.spec.colSize != 5 {
		t.Errorf("expected colSize 5, got %d", pd.spec.colSize)
	}
}

func TestEncodeValue_Int64(t *testing.T) {
	pd, err := encodeValue(int64(-42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.stride != 8 || len(pd.data) != 8 {
		t.Fatalf("expected 8-byte slot, got stride %d len %d", pd.stride, len(pd.data))
	}
	if got := getInt64(pd.data); got != -42 {
		t.Errorf("expected -42 in buffer, got %d", got)
	}
	if pd.inds[0] != 8 {
		t.Errorf("expected indicator 8, got %d", pd.inds[0])
	}
}

func TestEncodeValue_Uint64(t *testing.T) {
	// uint64 travels as a decimal string to avoid signed overflow
	pd, err := encodeValue(uint64(18446744073709551615))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.spec.ctype != SQL_C_CHAR || pd.spec.sqltype != SQL_VARCHAR {
		t.Errorf("expected CHAR/VARCHAR, got %d/%d", pd.spec.ctype, pd.spec.sqltype)
	}
	expected := "18446744073709551615"
	if got := string(pd.data[:len(expected)]); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
	if pd.inds[0] != SQLLEN(len(expected)) {
		t.Errorf("expected indicator %d, got %d", len(expected), pd.inds[0])
	}
}

func TestEncodeValue_Time(t *testing.T) {
	in := time.Date(2024, 6, 15, 14, 30, 45, 123456789, time.UTC)
	pd, err := encodeValue(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := getTimestamp(pd.data)
	if ts.Year != 2024 || ts.Month != 6 || ts.Day != 15 {
		t.Errorf("unexpected date: %+v", ts)
	}
	if ts.Hour != 14 || ts.Min != 30 || ts.Sec != 45 {
		t.Errorf("unexpected clock: %+v", ts)
	}
	// Fraction is truncated to millisecond precision for binding.
	if ts.Fract != 123000000 {
		t.Errorf("expected fraction 123000000, got %d", ts.Fract)
	}
}

func TestEncodeValue_GUID(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	pd, err := encodeValue(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pd.data) != 16 {
		t.Fatalf("expected 16-byte buffer, got %d", len(pd.data))
	}
	// The first three GUID fields are native-endian integers; the last
	// eight bytes stay in network order.
	if d1 := getUint32(pd.data[0:]); d1 != 0x550e8400 {
		t.Errorf("expected Data1 0x550e8400, got 0x%08x", d1)
	}
	if d2 := getUint16(pd.data[4:]); d2 != 0xe29b {
		t.Errorf("expected Data2 0xe29b, got 0x%04x", d2)
	}
	if d3 := getUint16(pd.data[6:]); d3 != 0x41d4 {
		t.Errorf("expected Data3 0x41d4, got 0x%04x", d3)
	}
	if !bytes.Equal(pd.data[8:16], u[8:16]) {
		t.Errorf("expected trailing bytes %x, got %x", u[8:16], pd.data[8:16])
	}
}

func TestEncodeValue_Unsupported(t *testing.T) {
	_, err := encodeValue(struct{ X int }{1})
	var tie *TypeIncompatibleError
	if !errors.As(err, &tie) {
		t.Fatalf("expected TypeIncompatibleError, got %v", err)
	}
}

// =============================================================================
// Batch Marshaling Tests
// =============================================================================

func TestEncodeBatch_Int32(t *testing.T) {
	pd, err := encodeBatch([]int32{10, 20, 30}, 0, NoNulls())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.batch != 3 || pd.stride != 4 || len(pd.data) != 12 {
		t.Fatalf("unexpected layout: batch %d stride %d len %d", pd.batch, pd.stride, len(pd.data))
	}
	for i, want := range []int32{10, 20, 30} {
		if got := getInt32(pd.data[i*4:]); got != want {
			t.Errorf("element %d: expected %d, got %d", i, want, got)
		}
		if pd.inds[i] != 4 {
			t.Errorf("element %d: expected indicator 4, got %d", i, pd.inds[i])
		}
	}
}

func TestEncodeBatch_NullFlags(t *testing.T) {
	pd, err := encodeBatch([]int32{1, 2, 3}, 0, NullFlags([]bool{false, true, false}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.inds[0] != 4 || pd.inds[2] != 4 {
		t.Errorf("expected value indicators 4, got %d and %d", pd.inds[0], pd.inds[2])
	}
	if pd.inds[1] != SQL_NULL_DATA {
		t.Errorf("expected SQL_NULL_DATA for flagged element, got %d", pd.inds[1])
	}
	// Null slots keep zeroed storage.
	if got := getInt32(pd.data[4:]); got != 0 {
		t.Errorf("expected zeroed null slot, got %d", got)
	}
}

func TestEncodeBatch_NullFlagsLengthMismatch(t *testing.T) {
	_, err := encodeBatch([]int32{1, 2}, 0, NullFlags([]bool{true}))
	var pe *ProgrammingError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgrammingError, got %v", err)
	}
	expected := "programming error: null flags length 1 does not match batch length 2"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestEncodeBatch_NullSentinel(t *testing.T) {
	pd, err := encodeBatch([]int32{1, -1, 3}, 0, NullSentinel(int32(-1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.inds[0] != 4 || pd.inds[2] != 4 {
		t.Errorf("expected value indicators, got %d and %d", pd.inds[0], pd.inds[2])
	}
	if pd.inds[1] != SQL_NULL_DATA {
		t.Errorf("expected SQL_NULL_DATA for sentinel element, got %d", pd.inds[1])
	}
}

func TestEncodeBatch_NullSentinelTypeMismatch(t *testing.T) {
	_, err := encodeBatch([]int32{1, 2}, 0, NullSentinel("x"))
	var pe *ProgrammingError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgrammingError, got %v", err)
	}
	expected := "programming error: null sentinel type string does not match batch element type int32"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestEncodeBatch_TimeSentinelComparesInstants(t *testing.T) {
	sentinel := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	// Same instant in a different zone must still read as the sentinel.
	shifted := sentinel.In(time.FixedZone("east", 3600))
	pd, err := encodeBatch([]time.Time{time.Now(), shifted}, 0, NullSentinel(sentinel))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.inds[0] == SQL_NULL_DATA {
		t.Error("expected first element non-null")
	}
	if pd.inds[1] != SQL_NULL_DATA {
		t.Errorf("expected shifted sentinel to read as null, got %d", pd.inds[1])
	}
}

func TestEncodeBatch_ByteSliceRejected(t *testing.T) {
	_, err := encodeBatch([]uint8{1, 2, 3}, 0, NoNulls())
	var tie *TypeIncompatibleError
	if !errors.As(err, &tie) {
		t.Fatalf("expected TypeIncompatibleError, got %v", err)
	}
	if tie.From != "[]byte" {
		t.Errorf("expected From %q, got %q", "[]byte", tie.From)
	}
}

func TestEncodeBatch_NotASlice(t *testing.T) {
	_, err := encodeBatch(42, 0, NoNulls())
	var tie *TypeIncompatibleError
	if !errors.As(err, &tie) {
		t.Fatalf("expected TypeIncompatibleError, got %v", err)
	}
}

func TestEncodeUint64Batch(t *testing.T) {
	pd, err := encodeBatch([]uint64{5, 18446744073709551615}, 0, NoNulls())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Slots sized from the longest decimal rendering plus a terminator.
	if pd.stride != 21 {
		t.Errorf("expected stride 21, got %d", pd.stride)
	}
	if got := string(pd.data[:1]); got != "5" {
		t.Errorf("expected %q, got %q", "5", got)
	}
	if got := string(pd.data[21 : 21+20]); got != "18446744073709551615" {
		t.Errorf("expected max uint64 text, got %q", got)
	}
	if pd.inds[0] != 1 || pd.inds[1] != 20 {
		t.Errorf("expected indicators 1 and 20, got %d and %d", pd.inds[0], pd.inds[1])
	}
	if pd.spec.colSize != 20 {
		t.Errorf("expected colSize 20, got %d", pd.spec.colSize)
	}
}

// =============================================================================
// String Batch Tests
// =============================================================================

func TestEncodeStringBatch_ComputedWidth(t *testing.T) {
	pd, err := encodeStringBatch([]string{"a", "longest", "mid"}, 0, NoNulls())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.stride != 8 {
		t.Errorf("expected stride 8, got %d", pd.stride)
	}
	if pd.spec.colSize != 7 {
		t.Errorf("expected colSize 7, got %d", pd.spec.colSize)
	}
	if got := string(pd.data[8 : 8+7]); got != "longest" {
		t.Errorf("expected %q in slot 1, got %q", "longest", got)
	}
	if pd.inds[0] != 1 || pd.inds[1] != 7 || pd.inds[2] != 3 {
		t.Errorf("unexpected indicators: %v", pd.inds)
	}
}

func TestEncodeStringBatch_DeclaredWidthRejectsWide(t *testing.T) {
	_, err := encodeStringBatch([]string{"ok", "toolong"}, 4, NoNulls())
	var pe *ProgrammingError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgrammingError, got %v", err)
	}
	expected := "programming error: string element 1 has length 7, wider than the declared width 4"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestEncodeStringBatch_DeclaredWidth(t *testing.T) {
	pd, err := encodeStringBatch([]string{"ab", "c"}, 10, NoNulls())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.stride != 11 {
		t.Errorf("expected stride 11, got %d", pd.stride)
	}
	if pd.spec.colSize != 10 {
		t.Errorf("expected colSize 10, got %d", pd.spec.colSize)
	}
}

func TestEncodeStringBatch_EmptyStrings(t *testing.T) {
	pd, err := encodeStringBatch([]string{"", ""}, 0, NoNulls())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Width clamps to one character so the driver still gets a buffer.
	if pd.stride != 2 || pd.spec.colSize != 1 {
		t.Errorf("expected stride 2 colSize 1, got %d and %d", pd.stride, pd.spec.colSize)
	}
	if pd.inds[0] != 0 || pd.inds[1] != 0 {
		t.Errorf("expected zero-length indicators, got %v", pd.inds)
	}
}

func TestEncodeStringBatch_NullFlags(t *testing.T) {
	pd, err := encodeStringBatch([]string{"x", "skip"}, 0, NullFlags([]bool{false, true}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pd.inds[0] != 1 {
		t.Errorf("expected indicator 1, got %d", pd.inds[0])
	}
	if pd.inds[1] != SQL_NULL_DATA {
		t.Errorf("expected SQL_NULL_DATA, got %d", pd.inds[1])
	}
}

func TestEncodeWideBatch(t *testing.T) {
	pd, err := encodeWideBatch([]WideString{"ab", "中文"}, 0, NoNulls())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two code units plus a terminator, two bytes each.
	if pd.stride != 6 {
		t.Errorf("expected stride 6, got %d", pd.stride)
	}
	if pd.spec.colSize != 2 {
		t.Errorf("expected colSize 2, got %d", pd.spec.colSize)
	}
	if !bytes.Equal(pd.data[0:4], []byte{'a', 0, 'b', 0}) {
		t.Errorf("unexpected UTF-16LE bytes for %q: %x", "ab", pd.data[0:4])
	}
	if !bytes.Equal(pd.data[6:10], []byte{0x2D, 0x4E, 0x87, 0x65}) {
		t.Errorf("unexpected UTF-16LE bytes for %q: %x", "中文", pd.data[6:10])
	}
	if pd.inds[0] != 4 || pd.inds[1] != 4 {
		t.Errorf("expected byte indicators 4, got %v", pd.inds)
	}
}

func TestEncodeWideBatch_WidthInCodeUnits(t *testing.T) {
	// The treble clef needs a surrogate pair: two code units.
	_, err := encodeWideBatch([]WideString{"\U0001D11E"}, 1, NoNulls())
	var pe *ProgrammingError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgrammingError, got %v", err)
	}
	expected := "programming error: wide string element 0 has length 2, wider than the declared width 1"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestEncodeBinaryBatch(t *testing.T) {
	pd, err := encodeBinaryBatch([][]byte{{1, 2, 3}, {4}}, 0, NoNulls())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Binary slots carry no terminator.
	if pd.stride != 3 || len(pd.data) != 6 {
		t.Fatalf("unexpected layout: stride %d len %d", pd.stride, len(pd.data))
	}
	if !bytes.Equal(pd.data, []byte{1, 2, 3, 4, 0, 0}) {
		t.Errorf("unexpected buffer: %v", pd.data)
	}
	if pd.inds[0] != 3 || pd.inds[1] != 1 {
		t.Errorf("expected indicators 3 and 1, got %v", pd.inds)
	}
}

func TestEncodeBinaryBatch_DeclaredWidthRejectsWide(t *testing.T) {
	_, err := encodeBinaryBatch([][]byte{{1, 2, 3}}, 2, NoNulls())
	var pe *ProgrammingError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgrammingError, got %v", err)
	}
}

// =============================================================================
// Buffer Primitive Tests
// =============================================================================

func TestPutGetRoundTrips(t *testing.T) {
	buf := make([]byte, 16)

	putInt16(buf, -12345)
	if got := getInt16(buf); got != -12345 {
		t.Errorf("int16: expected -12345, got %d", got)
	}
	putUint16(buf, 54321)
	if got := getUint16(buf); got != 54321 {
		t.Errorf("uint16: expected 54321, got %d", got)
	}
	putInt32(buf, -1234567890)
	if got := getInt32(buf); got != -1234567890 {
		t.Errorf("int32: expected -1234567890, got %d", got)
	}
	putInt64(buf, -1234567890123456789)
	if got := getInt64(buf); got != -1234567890123456789 {
		t.Errorf("int64: expected -1234567890123456789, got %d", got)
	}
	putFloat32(buf, 3.25)
	if got := getFloat32(buf); got != 3.25 {
		t.Errorf("float32: expected 3.25, got %v", got)
	}
	putFloat64(buf, -2.5e100)
	if got := getFloat64(buf); got != -2.5e100 {
		t.Errorf("float64: expected -2.5e100, got %v", got)
	}

	d := Date{Year: 2024, Month: 6, Day: 15}
	putDate(buf, d)
	if got := getDate(buf); got != d {
		t.Errorf("date: expected %+v, got %+v", d, got)
	}

	tm := Time{Hour: 14, Min: 30, Sec: 45}
	putTime(buf, tm)
	if got := getTime(buf); got != tm {
		t.Errorf("time: expected %+v, got %+v", tm, got)
	}

	ts := Timestamp{Year: 2024, Month: 6, Day: 15, Hour: 14, Min: 30, Sec: 45, Fract: 123000000}
	putTimestamp(buf, ts)
	if got := getTimestamp(buf); got != ts {
		t.Errorf("timestamp: expected %+v, got %+v", ts, got)
	}
}

func TestGUIDRoundTrip(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	buf := make([]byte, 16)
	putGUID(buf, u)
	if got := getGUID(buf); got != u {
		t.Errorf("expected %s, got %s", u, got)
	}
}

// =============================================================================
// Temporal Conversion Tests
// =============================================================================

func TestTimestampOf_TruncatesToMilliseconds(t *testing.T) {
	in := time.Date(2024, 6, 15, 14, 30, 45, 123456789, time.UTC)
	ts := timestampOf(in)
	if ts.Fract != 123000000 {
		t.Errorf("expected fraction 123000000, got %d", ts.Fract)
	}
}

func TestTimestampTimeRoundTrip(t *testing.T) {
	ts := Timestamp{Year: 2024, Month: 2, Day: 29, Hour: 23, Min: 59, Sec: 58, Fract: 500000000}
	got := timestampTime(ts)
	want := time.Date(2024, 2, 29, 23, 59, 58, 500000000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFormatTemporal(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"date", formatDate(Date{Year: 2024, Month: 6, Day: 5}), "2024-06-05"},
		{"time", formatTime(Time{Hour: 9, Min: 5, Sec: 0}), "09:05:00"},
		{"timestamp", formatTimestamp(Timestamp{Year: 2024, Month: 6, Day: 5, Hour: 9, Min: 5, Sec: 1}), "2024-06-05 09:05:01"},
		{"timestamp with fraction", formatTimestamp(Timestamp{Year: 2024, Month: 6, Day: 5, Hour: 9, Min: 5, Sec: 1, Fract: 123000000}), "2024-06-05 09:05:01.123000000"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.got)
		}
	}
}

// =============================================================================
// Column Binding Decision Tests
// =============================================================================

func TestColumnBinding(t *testing.T) {
	tests := []struct {
		name    string
		sqltype SQLSMALLINT
		colSize SQLULEN
		scale   SQLSMALLINT
		ctype   SQLSMALLINT
		width   int
		bound   bool
	}{
		{"bit", SQL_BIT, 1, 0, SQL_C_BIT, 1, true},
		{"tinyint", SQL_TINYINT, 3, 0, SQL_C_STINYINT, 1, true},
		{"smallint", SQL_SMALLINT, 5, 0, SQL_C_SSHORT, 2, true},
		{"integer", SQL_INTEGER, 10, 0, SQL_C_SLONG, 4, true},
		{"bigint", SQL_BIGINT, 19, 0, SQL_C_SBIGINT, 8, true},
		{"real", SQL_REAL, 7, 0, SQL_C_FLOAT, 4, true},
		{"double", SQL_DOUBLE, 15, 0, SQL_C_DOUBLE, 8, true},
		{"date", SQL_TYPE_DATE, 10, 0, SQL_C_DATE, 6, true},
		{"time", SQL_TYPE_TIME, 8, 0, SQL_C_TIME, 6, true},
		{"timestamp", SQL_TYPE_TIMESTAMP, 23, 3, SQL_C_TIMESTAMP, 16, true},
		{"guid", SQL_GUID, 36, 0, SQL_C_GUID, 16, true},
		{"decimal as text", SQL_DECIMAL, 18, 4, SQL_C_CHAR, 25, true},
		{"varchar", SQL_VARCHAR, 100, 0, SQL_C_CHAR, 101, true},
		{"varchar at threshold", SQL_VARCHAR, 1023, 0, SQL_C_CHAR, 1024, true},
		{"varchar over threshold", SQL_VARCHAR, 1024, 0, SQL_C_CHAR, 1025, false},
		{"varchar unknown size", SQL_VARCHAR, 0, 0, SQL_C_CHAR, 0, false},
		{"wvarchar", SQL_WVARCHAR, 50, 0, SQL_C_WCHAR, 102, true},
		{"wvarchar at threshold", SQL_WVARCHAR, 511, 0, SQL_C_WCHAR, 1024, true},
		{"wvarchar over threshold", SQL_WVARCHAR, 512, 0, SQL_C_WCHAR, 1026, false},
		{"binary", SQL_BINARY, 16, 0, SQL_C_BINARY, 16, true},
		{"varbinary at threshold", SQL_VARBINARY, 1024, 0, SQL_C_BINARY, 1024, true},
		{"varbinary over threshold", SQL_VARBINARY, 1025, 0, SQL_C_BINARY, 1025, false},
		{"longvarchar", SQL_LONGVARCHAR, 0, 0, SQL_C_CHAR, 0, false},
		{"wlongvarchar", SQL_WLONGVARCHAR, 0, 0, SQL_C_WCHAR, 0, false},
		{"longvarbinary", SQL_LONGVARBINARY, 0, 0, SQL_C_BINARY, 0, false},
		{"unknown type", SQLSMALLINT(9999), 10, 0, SQL_C_CHAR, 0, false},
	}

	for _, tt := range tests {
		ctype, width, bound := columnBinding(tt.sqltype, tt.colSize, tt.scale)
		if ctype != tt.ctype {
			t.Errorf("%s: expected ctype %d, got %d", tt.name, tt.ctype, ctype)
		}
		if width != tt.width {
			t.Errorf("%s: expected width %d, got %d", tt.name, tt.width, width)
		}
		if bound != tt.bound {
			t.Errorf("%s: expected bound %v, got %v", tt.name, tt.bound, bound)
		}
	}
}

// =============================================================================
// Cell Decoding Tests
// =============================================================================

func TestCellValue(t *testing.T) {
	intCell := make([]byte, 4)
	putInt32(intCell, -7)
	bigCell := make([]byte, 8)
	putInt64(bigCell, 1<<40)
	dblCell := make([]byte, 8)
	putFloat64(dblCell, 1.5)
	tsCell := make([]byte, 16)
	putTimestamp(tsCell, Timestamp{Year: 2024, Month: 1, Day: 2})
	guidCell := make([]byte, 16)
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	putGUID(guidCell, u)
	wide, err := encodeWide("中")
	if err != nil {
		t.Fatalf("encodeWide: %v", err)
	}

	tests := []struct {
		name     string
		ctype    SQLSMALLINT
		cell     []byte
		expected interface{}
	}{
		{"bit true", SQL_C_BIT, []byte{1}, true},
		{"bit false", SQL_C_BIT, []byte{0}, false},
		{"tinyint", SQL_C_STINYINT, []byte{0xFF}, int8(-1)},
		{"integer", SQL_C_SLONG, intCell, int32(-7)},
		{"bigint", SQL_C_SBIGINT, bigCell, int64(1 << 40)},
		{"double", SQL_C_DOUBLE, dblCell, 1.5},
		{"char", SQL_C_CHAR, []byte("abc"), "abc"},
		{"char with terminator", SQL_C_CHAR, []byte("ab\x00c"), "ab"},
		{"wchar", SQL_C_WCHAR, wide, "中"},
		{"timestamp", SQL_C_TIMESTAMP, tsCell, Timestamp{Year: 2024, Month: 1, Day: 2}},
		{"guid", SQL_C_GUID, guidCell, u},
	}

	for _, tt := range tests {
		got, err := cellValue(tt.ctype, tt.cell)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.expected {
			t.Errorf("%s: expected %v (%T), got %v (%T)", tt.name, tt.expected, tt.expected, got, got)
		}
	}
}

func TestCellValue_BinaryCopies(t *testing.T) {
	src := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	got, err := cellValue(SQL_C_BINARY, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, ok := got.([]byte)
	if !ok {
		t.Fatalf("expected []byte, got %T", got)
	}
	src[0] = 0
	if !bytes.Equal(out, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Error("decoded binary cell must not alias the rowset buffer")
	}
}

func TestCellValue_UnknownCType(t *testing.T) {
	_, err := cellValue(SQLSMALLINT(9999), []byte{1})
	var tie *TypeIncompatibleError
	if !errors.As(err, &tie) {
		t.Fatalf("expected TypeIncompatibleError, got %v", err)
	}
}

func TestTrimNUL(t *testing.T) {
	tests := []struct {
		in       []byte
		expected string
	}{
		{[]byte("abc\x00def"), "abc"},
		{[]byte("abc"), "abc"},
		{[]byte("\x00abc"), ""},
		{[]byte{}, ""},
	}

	for _, tt := range tests {
		if got := string(trimNUL(tt.in)); got != tt.expected {
			t.Errorf("trimNUL(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}

func TestTrimWideNUL(t *testing.T) {
	in := []byte{'a', 0, 'b', 0, 0, 0, 'c', 0}
	got := trimWideNUL(in)
	if !bytes.Equal(got, []byte{'a', 0, 'b', 0}) {
		t.Errorf("expected trim at wide terminator, got %v", got)
	}
	noTerm := []byte{'a', 0, 'b', 0}
	if got := trimWideNUL(noTerm); !bytes.Equal(got, noTerm) {
		t.Errorf("expected unterminated input unchanged, got %v", got)
	}
}

// =============================================================================
// Host Conversion Tests
// =============================================================================

func TestToInt64(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		expected int64
	}{
		{"bool true", true, 1},
		{"bool false", false, 0},
		{"int8", int8(-5), -5},
		{"int16", int16(300), 300},
		{"int32", int32(-70000), -70000},
		{"int64", int64(1 << 40), 1 << 40},
		{"uint32", uint32(7), 7},
		{"float64 truncates", 3.9, 3},
		{"string", "42", 42},
		{"padded string", "  42 ", 42},
	}

	for _, tt := range tests {
		got, err := toInt64(tt.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.expected, got)
		}
	}
}

func TestToInt64_Errors(t *testing.T) {
	var tie *TypeIncompatibleError
	if _, err := toInt64("abc"); !errors.As(err, &tie) {
		t.Errorf("expected TypeIncompatibleError for non-numeric text, got %v", err)
	}
	if _, err := toInt64(Date{}); !errors.As(err, &tie) {
		t.Errorf("expected TypeIncompatibleError for Date, got %v", err)
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		expected float64
	}{
		{"int32", int32(-2), -2},
		{"float32", float32(1.5), 1.5},
		{"float64", 2.25, 2.25},
		{"string", "3.5", 3.5},
		{"bool", true, 1},
	}

	for _, tt := range tests {
		got, err := toFloat64(tt.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestToGoString(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	tests := []struct {
		name     string
		in       interface{}
		expected string
	}{
		{"string", "x", "x"},
		{"bytes", []byte("raw"), "raw"},
		{"bool", true, "true"},
		{"int32", int32(-42), "-42"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"float64", 1.5, "1.5"},
		{"date", Date{Year: 2024, Month: 6, Day: 15}, "2024-06-15"},
		{"time", Time{Hour: 14, Min: 30, Sec: 45}, "14:30:45"},
		{"timestamp", Timestamp{Year: 2024, Month: 6, Day: 15, Hour: 14, Min: 30, Sec: 45}, "2024-06-15 14:30:45"},
		{"guid", u, "550e8400-e29b-41d4-a716-446655440000"},
	}

	for _, tt := range tests {
		got, err := toGoString(tt.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, got)
		}
	}
}

// =============================================================================
// Cell Assignment Tests
// =============================================================================

func TestAssignCell_Numeric(t *testing.T) {
	var i32 int32
	if err := assignCell(&i32, int64(70000)); err != nil || i32 != 70000 {
		t.Errorf("int64 to int32: got %d, err %v", i32, err)
	}
	var i int
	if err := assignCell(&i, "17"); err != nil || i != 17 {
		t.Errorf("string to int: got %d, err %v", i, err)
	}
	var f float64
	if err := assignCell(&f, "2.5"); err != nil || f != 2.5 {
		t.Errorf("string to float64: got %v, err %v", f, err)
	}
	var u64 uint64
	if err := assignCell(&u64, "18446744073709551615"); err != nil || u64 != 18446744073709551615 {
		t.Errorf("string to uint64: got %d, err %v", u64, err)
	}
}

func TestAssignCell_Bool(t *testing.T) {
	var b bool
	if err := assignCell(&b, "true"); err != nil || !b {
		t.Errorf("string to bool: got %v, err %v", b, err)
	}
	if err := assignCell(&b, int32(0)); err != nil || b {
		t.Errorf("int to bool: got %v, err %v", b, err)
	}
	if err := assignCell(&b, int8(2)); err != nil || !b {
		t.Errorf("nonzero to bool: got %v, err %v", b, err)
	}
}

func TestAssignCell_Text(t *testing.T) {
	var s string
	if err := assignCell(&s, int64(-3)); err != nil || s != "-3" {
		t.Errorf("int64 to string: got %q, err %v", s, err)
	}
	var w WideString
	if err := assignCell(&w, "wide"); err != nil || w != "wide" {
		t.Errorf("string to WideString: got %q, err %v", w, err)
	}
	var raw []byte
	if err := assignCell(&raw, "bytes"); err != nil || string(raw) != "bytes" {
		t.Errorf("string to []byte: got %q, err %v", raw, err)
	}
}

func TestAssignCell_Temporal(t *testing.T) {
	ts := Timestamp{Year: 2024, Month: 6, Day: 15, Hour: 14, Min: 30, Sec: 45, Fract: 123000000}

	var tm time.Time
	if err := assignCell(&tm, ts); err != nil {
		t.Fatalf("timestamp to time.Time: %v", err)
	}
	want := time.Date(2024, 6, 15, 14, 30, 45, 123000000, time.UTC)
	if !tm.Equal(want) {
		t.Errorf("expected %v, got %v", want, tm)
	}

	var d Date
	if err := assignCell(&d, ts); err != nil || d != (Date{Year: 2024, Month: 6, Day: 15}) {
		t.Errorf("timestamp to Date: got %+v, err %v", d, err)
	}

	var clock Time
	if err := assignCell(&clock, ts); err != nil || clock != (Time{Hour: 14, Min: 30, Sec: 45}) {
		t.Errorf("timestamp to Time: got %+v, err %v", clock, err)
	}

	var back Timestamp
	if err := assignCell(&back, want); err != nil {
		t.Fatalf("time.Time to Timestamp: %v", err)
	}
	if back.Fract != 123000000 {
		t.Errorf("expected full fraction preserved, got %d", back.Fract)
	}
}

func TestAssignCell_GUID(t *testing.T) {
	want := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	var u uuid.UUID
	if err := assignCell(&u, "550e8400-e29b-41d4-a716-446655440000"); err != nil || u != want {
		t.Errorf("string to UUID: got %s, err %v", u, err)
	}
	u = uuid.UUID{}
	if err := assignCell(&u, want[:]); err != nil || u != want {
		t.Errorf("bytes to UUID: got %s, err %v", u, err)
	}
	if err := assignCell(&u, "not a guid"); err == nil {
		t.Error("expected error parsing malformed GUID text")
	}
}

func TestAssignCell_Interface(t *testing.T) {
	var any interface{}
	if err := assignCell(&any, int32(9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := any.(int32); !ok || got != 9 {
		t.Errorf("expected natural value passthrough, got %v (%T)", any, any)
	}
}

func TestAssignCell_Unsupported(t *testing.T) {
	var tie *TypeIncompatibleError

	var c complex128
	if err := assignCell(&c, int32(1)); !errors.As(err, &tie) {
		t.Errorf("expected TypeIncompatibleError for unsupported destination, got %v", err)
	}
	var d Date
	if err := assignCell(&d, "2024-06-15"); !errors.As(err, &tie) {
		t.Errorf("expected TypeIncompatibleError for text to Date, got %v", err)
	}
}
