//go:build integration

// Package testdb connects integration tests to a PostgreSQL database.
//
// Tests skip when no database URL is configured. Each test runs inside a
// transaction that is rolled back when the test finishes, so tests can share
// one schema:
//
//	func TestSessionStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        exams := postgres.NewPostgresExamStore(tx, nil)
//	        ...
//	    })
//	}
//
// The URL is read from DATABASE_URL, then EXAM_TEST_DB_URL, then
// EXAM_DATABASE_URL.
package testdb
