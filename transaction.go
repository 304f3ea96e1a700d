package nanodbc

import (
	"sync"
)

// Transaction scopes a unit of work on a connection. Creating one turns
// autocommit off; Commit or Rollback end the unit and restore autocommit.
// A Transaction that is closed without committing rolls back, so the
// usual pattern is:
//
//	tx, err := nanodbc.NewTransaction(conn)
//	if err != nil { ... }
//	defer tx.Close()
//	// work
//	return tx.Commit()
type Transaction struct {
	conn *Connection
	mu   sync.Mutex
	done bool
}

// beginManualCommit switches the connection out of autocommit for an
// explicit transaction. Only one transaction may be active at a time.
func (c *Connection) beginManualCommit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return newProgrammingError("connection has been released")
	}
	if !c.connected {
		return newProgrammingError("connection is not connected")
	}
	if c.inTx {
		return newProgrammingError("a transaction is already active on this connection")
	}

	ret := SetConnectAttr(c.dbc, SQL_ATTR_AUTOCOMMIT, uintptr(SQL_AUTOCOMMIT_OFF), 0)
	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLSetConnectAttr")
	}

	c.inTx = true
	return nil
}

// endManualCommit completes the active transaction with SQL_COMMIT or
// SQL_ROLLBACK and restores autocommit.
func (c *Connection) endManualCommit(completion SQLSMALLINT) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inTx {
		return nil
	}

	ret := EndTran(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), completion)
	c.inTx = false

	if !IsSuccess(ret) {
		return NewDatabaseError(SQL_HANDLE_DBC, SQLHANDLE(c.dbc), "SQLEndTran")
	}

	// Restore autocommit (the transaction itself succeeded, so best-effort)
	SetConnectAttr(c.dbc, SQL_ATTR_AUTOCOMMIT, uintptr(SQL_AUTOCOMMIT_ON), 0)

	return nil
}

// NewTransaction starts a transaction on conn.
func NewTransaction(conn *Connection) (*Transaction, error) {
	if err := conn.beginManualCommit(); err != nil {
		return nil, err
	}
	return &Transaction{conn: conn}, nil
}

// Commit makes the transaction's work permanent. Calling it on a finished
// transaction is a no-op.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	return t.conn.endManualCommit(SQL_COMMIT)
}

// Rollback discards the transaction's work. Calling it on a finished
// transaction is a no-op.
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	return t.conn.endManualCommit(SQL_ROLLBACK)
}

// Close rolls back the transaction unless it was committed or rolled back
// already. It is idempotent and never fails, so it is safe to defer
// unconditionally.
func (t *Transaction) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	t.conn.endManualCommit(SQL_ROLLBACK)
	return nil
}

// Connection returns the connection the transaction runs on.
func (t *Transaction) Connection() *Connection {
	return t.conn
}
