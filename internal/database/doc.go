// Package database provides the SQLite run history for nlpreport.
//
// Every analysis run, successful or not, is stored as one row in the runs
// table together with its JSON form. The history command lists these rows.
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, with a
// single connection so concurrent batch runs serialize their writes.
package database
