// Package store owns the posts database.
//
// Open connects to a SQLite file through modernc.org/sqlite and applies the
// embedded goose migrations: 00001 creates the posts table and 00002 seeds
// the demo posts. Repository wraps the connection with the handful of
// queries the posts service needs.
//
// The schema deliberately has no secondary indexes, and Repository offers no
// bulk "all posts" query. The posts service builds its list one row at a
// time, which is the N+1 pattern the demo exists to expose.
package store
