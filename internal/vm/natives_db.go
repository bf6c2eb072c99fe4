package vm

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// nativeDB is the persistence native's single open handle. Scripts get a
// tiny key/value store backed by a one-table sqlite database, giving a
// Lumen program durable state across separate runs.
type nativeDB struct {
	conn *sql.DB
}

// nativeDBOpen opens (creating if needed) a sqlite database file at the
// given path and prepares its single key/value table.
func nativeDBOpen(vm *VM, args []Value) (Value, error) {
	if len(args) != 1 {
		return NilVal(), wrongArgCount("db_open", 1)
	}
	path, ok := asString(args[0])
	if !ok {
		return NilVal(), fmt.Errorf("db_open() expects a string path.")
	}

	if vm.db != nil {
		_ = vm.db.conn.Close()
	}

	conn, err := sql.Open("sqlite", path.Chars)
	if err != nil {
		return NilVal(), err
	}
	const schema = `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return NilVal(), err
	}

	vm.db = &nativeDB{conn: conn}
	return BoolVal(true), nil
}

// nativeDBSet stores a string value under a string key.
func nativeDBSet(vm *VM, args []Value) (Value, error) {
	if len(args) != 2 {
		return NilVal(), wrongArgCount("db_set", 2)
	}
	if vm.db == nil {
		return NilVal(), fmt.Errorf("db_set() called before db_open().")
	}
	key, ok := asString(args[0])
	if !ok {
		return NilVal(), fmt.Errorf("db_set() expects a string key.")
	}
	value, ok := asString(args[1])
	if !ok {
		return NilVal(), fmt.Errorf("db_set() expects a string value.")
	}

	const upsert = `INSERT INTO kv(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := vm.db.conn.Exec(upsert, key.Chars, value.Chars); err != nil {
		return NilVal(), err
	}
	return BoolVal(true), nil
}

// nativeDBGet returns the string stored under key, or nil if absent.
func nativeDBGet(vm *VM, args []Value) (Value, error) {
	if len(args) != 1 {
		return NilVal(), wrongArgCount("db_get", 1)
	}
	if vm.db == nil {
		return NilVal(), fmt.Errorf("db_get() called before db_open().")
	}
	key, ok := asString(args[0])
	if !ok {
		return NilVal(), fmt.Errorf("db_get() expects a string key.")
	}

	var value string
	err := vm.db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key.Chars).Scan(&value)
	if err == sql.ErrNoRows {
		return NilVal(), nil
	}
	if err != nil {
		return NilVal(), err
	}
	return ObjVal(vm.internString(value)), nil
}

// nativeDBClose closes the open database handle, if any.
func nativeDBClose(vm *VM, args []Value) (Value, error) {
	if vm.db == nil {
		return BoolVal(false), nil
	}
	err := vm.db.conn.Close()
	vm.db = nil
	if err != nil {
		return NilVal(), err
	}
	return BoolVal(true), nil
}
