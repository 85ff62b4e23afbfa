// Package assignment persists per-pack claim records in SQLite.
//
// Each pack owns one database holding its active claims: at most one record
// per asset path, at most one per user. Claim resolves concurrent attempts
// with a single conditional insert so exactly one caller wins; conflicts come
// back as tagged outcomes rather than errors. Release is idempotent.
//
// Records are deleted on successful submission, so the table always reflects
// only work currently out with volunteers.
package assignment
