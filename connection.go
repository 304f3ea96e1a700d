package nanodbc

import (
	"sync"
	"unsafe"
)

// Connection owns an environment and connection handle pair. The zero
// value is not usable; allocate with NewConnection or Open. Methods are
// safe for concurrent use, but statements created on one connection must
// not be executed concurrently with each other.
type Connection struct {
	env SQLHENV
	dbc SQLHDBC

	mu           sync.Mutex
	connected    bool
	released     bool
	inTx         bool
	loginTimeout int // seconds; 0 leaves the driver default
}

// NewConnection allocates the handle pair without connecting. The login
// timeout is seeded from the loaded configuration and can be changed with
// SetLoginTimeout before Connect.
func NewConnection() (*Connection, error) {
	if err := initODBC(); err != nil {
		return nil, err
	}

	var env SQLHENV
	ret := AllocHandle(SQL_HANDLE_ENV, SQL_NULL_HANDLE, (*SQLHANDLE)(&env))
	if !IsSuccess(ret) {
		// No handle yet, so no diagnostics to collect
		return nil, &DatabaseError{
			State:   SQLStateMemoryAllocationError,
			Message: "failed to allocate environment handle",
			Context: "SQLAllocHandle",
		}
	}

	ret = SetEnvAttr(env, SQL_ATTR_ODBC_VERSION, uintptr(SQL_OV_ODBC3), 0)
	if !IsSuccess(ret) {
		err := NewDatabaseError(SQL_HANDLE_ENV, SQLHANDLE(env), "SQLSetEnvAttr")
		FreeHandle(SQL_HANDLE_ENV, SQLHANDLE(env))
		return nil, err
	}

	var dbc SQLHDBC
	ret = AllocHandle(SQL_HANDLE_DBC, SQLHANDLE(env), (*SQLHANDLE)(&dbc))
	if !IsSuccess(ret) {
		err := NewDatabaseError(SQL_HANDLE_ENV, SQLHANDLE(env), "SQLAllocHandle")
		FreeHandle(SQL_HANDLE_ENV, SQLHANDLE(env))
		return nil, err
	}

	conn := &Connection{env: env, dbc: dbc}
	if cfg := currentConfig(); cfg != nil {
		conn.loginTimeout = cfg.LoginTimeout
	}
	return conn, nil
}

// Open connects using an ODBC connection string.
func Open(connStr string) (*Connection, error) {
	conn, err := NewConnection()
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(connStr); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// OpenDSN connects to a named data source with optional credentials.
func OpenDSN(dsn, user, pass string) (*Connection, error) {
	conn, err := NewConnection()
	if err != nil {
		return nil, err
	}
	if err := conn.ConnectDSN(dsn, user, pass); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// SetLoginTimeout bounds connection establishment, in seconds. Zero
// restores the driver default. Takes effect on the next Connect.
func (c *Connection) SetLoginTimeout(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginTimeout = seconds
}

func (c *Connection) prepareConnect() error {
	if c.released {
		return newProgrammingError("connection has been released")
	}
	if c.connected {
		if ret := Disconnect(c.dbc); !IsSuccess(ret) {
			return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLDisconnect")
		}
		c.connected = false
	}
	if c.loginTimeout > 0 {
		ret := SetConnectAttr(c.dbc, SQL_ATTR_LOGIN_TIMEOUT, uintptr(c.loginTimeout), SQL_IS_UINTEGER)
		if !IsSuccess(ret) {
			return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLSetConnectAttr")
		}
	}
	return nil
}

// Connect establishes a connection using an ODBC connection string. A
// connected Connection is disconnected first, so Connect can be used to
// re-establish a dropped session.
func (c *Connection) Connect(connStr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.prepareConnect(); err != nil {
		return err
	}

	outConnStr := make([]byte, 1024)
	_, ret := DriverConnect(c.dbc, 0, connStr, outConnStr, SQL_DRIVER_NOPROMPT)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLDriverConnect")
	}

	c.connected = true
	return nil
}

// ConnectDSN establishes a connection to a named data source.
func (c *Connection) ConnectDSN(dsn, user, pass string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.prepareConnect(); err != nil {
		return err
	}

	ret := Connect(c.dbc, dsn, user, pass)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLConnect")
	}

	c.connected = true
	return nil
}

// ConnectAsync starts connecting without blocking. event is an OS event
// handle the driver signals when the attempt finishes; the caller waits on
// it and then calls CompleteConnect. A false return means the connection
// completed synchronously and no completion call is needed.
func (c *Connection) ConnectAsync(connStr string, event uintptr) (stillExecuting bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !AsyncSupported() {
		return false, newProgrammingError("asynchronous completion is not available in the loaded driver manager")
	}
	if err := c.prepareConnect(); err != nil {
		return false, err
	}

	ret := SetConnectAttr(c.dbc, SQL_ATTR_ASYNC_DBC_FUNCTIONS_ENABLE, uintptr(SQL_ASYNC_DBC_ENABLE_ON), SQL_IS_UINTEGER)
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLSetConnectAttr")
	}
	ret = SetConnectAttr(c.dbc, SQL_ATTR_ASYNC_DBC_EVENT, event, SQL_IS_POINTER)
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLSetConnectAttr")
	}

	outConnStr := make([]byte, 1024)
	_, ret = DriverConnect(c.dbc, 0, connStr, outConnStr, SQL_DRIVER_NOPROMPT)
	if ret == SQL_STILL_EXECUTING {
		return true, nil
	}
	if !IsSuccess(ret) {
		return false, NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLDriverConnect")
	}

	c.connected = true
	return false, nil
}

// CompleteConnect finishes a connection attempt started by ConnectAsync
// after the event handle has been signaled.
func (c *Connection) CompleteConnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !AsyncSupported() {
		return newProgrammingError("asynchronous completion is not available in the loaded driver manager")
	}

	var code SQLRETURN
	ret := CompleteAsync(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), &code)
	if !IsSuccess(ret) || !IsSuccess(code) {
		return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLCompleteAsync")
	}

	c.connected = true
	return nil
}

// Connected reports whether the connection has been established and not
// yet disconnected or released.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected && !c.released
}

// Disconnect closes the session but keeps the handles, so Connect can be
// called again.
func (c *Connection) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return newProgrammingError("connection has been released")
	}
	if !c.connected {
		return nil
	}

	// An open transaction would make SQLDisconnect fail with 25000
	if c.inTx {
		EndTran(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), SQL_ROLLBACK)
		c.inTx = false
	}

	ret := Disconnect(c.dbc)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLDisconnect")
	}

	c.connected = false
	return nil
}

// Close disconnects and frees both handles. It is idempotent and never
// fails; the error return exists only to satisfy io.Closer.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return nil
	}
	c.released = true

	if c.dbc != 0 {
		if c.inTx {
			EndTran(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), SQL_ROLLBACK)
			c.inTx = false
		}
		if c.connected {
			Disconnect(c.dbc)
			c.connected = false
		}
		FreeHandle(SQL_HANDLE_DBC, SQLHANDLE(c.dbc))
		c.dbc = 0
	}
	if c.env != 0 {
		FreeHandle(SQL_HANDLE_ENV, SQLHANDLE(c.env))
		c.env = 0
	}

	return nil
}

// getInfoString retrieves a driver information string.
func (c *Connection) getInfoString(infoType SQLUSMALLINT) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return "", newProgrammingError("connection has been released")
	}

	buf := make([]byte, 1024)
	strLen, ret := GetInfo(c.dbc, infoType, buf)
	if !IsSuccess(ret) {
		return "", NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLGetInfo")
	}
	n := int(strLen)
	if n < 0 || n > len(buf) {
		n = len(buf)
	}
	return string(trimNUL(buf[:n])), nil
}

// DbmsName returns the name of the connected database product.
func (c *Connection) DbmsName() (string, error) {
	return c.getInfoString(SQL_DBMS_NAME)
}

// DbmsVersion returns the version of the connected database product.
func (c *Connection) DbmsVersion() (string, error) {
	return c.getInfoString(SQL_DBMS_VER)
}

// DriverName returns the name of the ODBC driver serving the connection.
func (c *Connection) DriverName() (string, error) {
	return c.getInfoString(SQL_DRIVER_NAME)
}

// DriverVersion returns the version of the ODBC driver.
func (c *Connection) DriverVersion() (string, error) {
	return c.getInfoString(SQL_DRIVER_VER)
}

// DatabaseName returns the name of the current database.
func (c *Connection) DatabaseName() (string, error) {
	return c.getInfoString(SQL_DATABASE_NAME)
}

// CatalogName returns the connection's current catalog.
func (c *Connection) CatalogName() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return "", newProgrammingError("connection has been released")
	}

	buf := make([]byte, 1024)
	var strLen SQLINTEGER
	ret := GetConnectAttr(c.dbc, SQL_ATTR_CURRENT_CATALOG, uintptr(unsafe.Pointer(&buf[0])), SQLINTEGER(len(buf)), &strLen)
	if !IsSuccess(ret) {
		return "", NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLGetConnectAttr")
	}
	n := int(strLen)
	if n < 0 || n > len(buf) {
		n = len(buf)
	}
	return string(trimNUL(buf[:n])), nil
}

// Execute runs a query directly on a fresh statement and returns its
// results. The statement is owned by the Result and released with it.
func (c *Connection) Execute(query string, ops ...BatchOps) (*Result, error) {
	st, err := NewStatement(c)
	if err != nil {
		return nil, err
	}
	res, err := st.ExecuteDirect(query, ops...)
	if err != nil {
		st.Close()
		return nil, err
	}
	res.ownStatement()
	return res, nil
}

// JustExecute runs a statement that produces no result set, such as DDL.
func (c *Connection) JustExecute(query string, ops ...BatchOps) error {
	st, err := NewStatement(c)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.JustExecuteDirect(query, ops...)
}

// NativeEnvHandle exposes the underlying environment handle.
func (c *Connection) NativeEnvHandle() SQLHENV {
	return c.env
}

// NativeDbcHandle exposes the underlying connection handle.
func (c *Connection) NativeDbcHandle() SQLHDBC {
	return c.dbc
}
