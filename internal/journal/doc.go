// Package journal persists deployment history backed by SQLite.
//
// Every deploy records the rendered config hash, the resolved config path,
// and the outcome, so operators can see when the mint's configuration last
// changed and whether the change activated cleanly.
package journal
