// Package queue persists per-session pipeline state in SQLite. Each plenary
// session gets one row tracking its lifecycle status, the run that touched
// it last, a failure reason when processing aborted, and the decision counts
// the summary report aggregates. The store survives restarts so assembly can
// refuse to run while sessions are still mid-flight.
package queue
