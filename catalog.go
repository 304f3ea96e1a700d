package nanodbc

// Catalog enumerates data source metadata through the native catalog
// entry points. Each Find method runs one catalog query and returns a
// typed iterator over the standard columns of its result set; the
// iterator owns the underlying statement and must be closed.
type Catalog struct {
	conn *Connection
}

// NewCatalog returns a catalog reading conn's data source.
func NewCatalog(conn *Connection) *Catalog {
	return &Catalog{conn: conn}
}

// catalogResult runs one catalog query on a fresh statement and hands the
// statement to the result it produces.
func (c *Catalog) catalogResult(context string, query func(SQLHSTMT) SQLRETURN) (*Result, error) {
	st, err := NewStatement(c.conn)
	if err != nil {
		return nil, err
	}
	if ret := query(st.stmt); !IsSuccess(ret) {
		dbErr := NewDatabaseError(SQL_HANDLE_STMT, SQLHANDLE(st.stmt), context)
		st.Close()
		return nil, dbErr
	}
	res, err := newResult(st, 1)
	if err != nil {
		st.Close()
		return nil, err
	}
	res.ownStatement()
	return res, nil
}

// FindTables matches tables against the given name pattern, comma-joined
// type list (such as "TABLE,VIEW"), schema pattern, and catalog name.
// Empty arguments match everything.
func (c *Catalog) FindTables(table, tableType, schema, catalog string) (*TableIter, error) {
	res, err := c.catalogResult("SQLTables", func(h SQLHSTMT) SQLRETURN {
		return Tables(h, catalog, schema, table, tableType)
	})
	if err != nil {
		return nil, err
	}
	return &TableIter{res: res}, nil
}

// FindColumns matches columns against the given column and table name
// patterns, schema pattern, and catalog name. Empty arguments match
// everything.
func (c *Catalog) FindColumns(column, table, schema, catalog string) (*ColumnIter, error) {
	res, err := c.catalogResult("SQLColumns", func(h SQLHSTMT) SQLRETURN {
		return Columns(h, catalog, schema, table, column)
	})
	if err != nil {
		return nil, err
	}
	return &ColumnIter{res: res}, nil
}

// FindPrimaryKeys returns the primary key columns of the named table.
// table is a literal name, not a pattern.
func (c *Catalog) FindPrimaryKeys(table, schema, catalog string) (*PrimaryKeyIter, error) {
	res, err := c.catalogResult("SQLPrimaryKeys", func(h SQLHSTMT) SQLRETURN {
		return PrimaryKeys(h, catalog, schema, table)
	})
	if err != nil {
		return nil, err
	}
	return &PrimaryKeyIter{res: res}, nil
}

// TableIter iterates the tables a catalog query matched. The getters read
// the standard table-list columns of the current row; fields the driver
// left null come back empty.
type TableIter struct {
	res *Result
}

// Next advances to the next matched table.
func (it *TableIter) Next() (bool, error) {
	return it.res.Next()
}

// Close releases the iterator's statement.
func (it *TableIter) Close() error {
	return it.res.Close()
}

// Catalog returns the table's catalog name.
func (it *TableIter) Catalog() (string, error) {
	return GetOr[string](it.res, 0, "")
}

// Schema returns the table's schema name.
func (it *TableIter) Schema() (string, error) {
	return GetOr[string](it.res, 1, "")
}

// Name returns the table's name.
func (it *TableIter) Name() (string, error) {
	return GetOr[string](it.res, 2, "")
}

// Type returns the table's type, such as "TABLE" or "VIEW".
func (it *TableIter) Type() (string, error) {
	return GetOr[string](it.res, 3, "")
}

// Remarks returns the table's description.
func (it *TableIter) Remarks() (string, error) {
	return GetOr[string](it.res, 4, "")
}

// ColumnIter iterates the columns a catalog query matched, exposing the
// standard column-list fields of the current row.
type ColumnIter struct {
	res *Result
}

// Next advances to the next matched column.
func (it *ColumnIter) Next() (bool, error) {
	return it.res.Next()
}

// Close releases the iterator's statement.
func (it *ColumnIter) Close() error {
	return it.res.Close()
}

// Catalog returns the owning table's catalog name.
func (it *ColumnIter) Catalog() (string, error) {
	return GetOr[string](it.res, 0, "")
}

// Schema returns the owning table's schema name.
func (it *ColumnIter) Schema() (string, error) {
	return GetOr[string](it.res, 1, "")
}

// TableName returns the owning table's name.
func (it *ColumnIter) TableName() (string, error) {
	return GetOr[string](it.res, 2, "")
}

// Name returns the column's name.
func (it *ColumnIter) Name() (string, error) {
	return GetOr[string](it.res, 3, "")
}

// Datatype returns the column's SQL type code.
func (it *ColumnIter) Datatype() (SQLSMALLINT, error) {
	v, err := GetOr[int16](it.res, 4, 0)
	return SQLSMALLINT(v), err
}

// TypeName returns the data source's own name for the column's type.
func (it *ColumnIter) TypeName() (string, error) {
	return GetOr[string](it.res, 5, "")
}

// Size returns the column size: character length for text, precision for
// numerics, byte length for binary.
func (it *ColumnIter) Size() (int, error) {
	return GetOr[int](it.res, 6, 0)
}

// BufferLength returns the transfer byte count of the column's cells.
func (it *ColumnIter) BufferLength() (int, error) {
	return GetOr[int](it.res, 7, 0)
}

// DecimalDigits returns the column's scale.
func (it *ColumnIter) DecimalDigits() (int, error) {
	return GetOr[int](it.res, 8, 0)
}

// NumericPrecisionRadix returns 10 or 2 for numeric columns.
func (it *ColumnIter) NumericPrecisionRadix() (int, error) {
	return GetOr[int](it.res, 9, 0)
}

// Nullable reports whether the column accepts nulls; columns the driver
// cannot classify count as nullable.
func (it *ColumnIter) Nullable() (bool, error) {
	v, err := GetOr[int16](it.res, 10, int16(SQL_NULLABLE))
	return SQLSMALLINT(v) != SQL_NO_NULLS, err
}

// Remarks returns the column's description.
func (it *ColumnIter) Remarks() (string, error) {
	return GetOr[string](it.res, 11, "")
}

// Default returns the column's default value expression.
func (it *ColumnIter) Default() (string, error) {
	return GetOr[string](it.res, 12, "")
}

// SQLDatatype returns the verbose protocol type code; for date and time
// columns this is the datetime umbrella type rather than the concise one.
func (it *ColumnIter) SQLDatatype() (SQLSMALLINT, error) {
	v, err := GetOr[int16](it.res, 13, 0)
	return SQLSMALLINT(v), err
}

// DatetimeSubtype returns the datetime subtype code for date and time
// columns, and zero otherwise.
func (it *ColumnIter) DatetimeSubtype() (SQLSMALLINT, error) {
	v, err := GetOr[int16](it.res, 14, 0)
	return SQLSMALLINT(v), err
}

// CharOctetLength returns the maximum byte length of a character column.
func (it *ColumnIter) CharOctetLength() (int, error) {
	return GetOr[int](it.res, 15, 0)
}

// OrdinalPosition returns the column's 1-based position in its table.
func (it *ColumnIter) OrdinalPosition() (int, error) {
	return GetOr[int](it.res, 16, 0)
}

// IsNullable returns the driver's "YES"/"NO" nullability text, which is
// empty when unknown.
func (it *ColumnIter) IsNullable() (string, error) {
	return GetOr[string](it.res, 17, "")
}

// PrimaryKeyIter iterates the primary key columns a catalog query
// matched, in key sequence order.
type PrimaryKeyIter struct {
	res *Result
}

// Next advances to the next key column.
func (it *PrimaryKeyIter) Next() (bool, error) {
	return it.res.Next()
}

// Close releases the iterator's statement.
func (it *PrimaryKeyIter) Close() error {
	return it.res.Close()
}

// Catalog returns the table's catalog name.
func (it *PrimaryKeyIter) Catalog() (string, error) {
	return GetOr[string](it.res, 0, "")
}

// Schema returns the table's schema name.
func (it *PrimaryKeyIter) Schema() (string, error) {
	return GetOr[string](it.res, 1, "")
}

// TableName returns the table's name.
func (it *PrimaryKeyIter) TableName() (string, error) {
	return GetOr[string](it.res, 2, "")
}

// ColumnName returns the key column's name.
func (it *PrimaryKeyIter) ColumnName() (string, error) {
	return GetOr[string](it.res, 3, "")
}

// ColumnNumber returns the column's 1-based position within the key.
func (it *PrimaryKeyIter) ColumnNumber() (int, error) {
	return GetOr[int](it.res, 4, 0)
}

// Name returns the primary key's name, when the data source names keys.
func (it *PrimaryKeyIter) Name() (string, error) {
	return GetOr[string](it.res, 5, "")
}
