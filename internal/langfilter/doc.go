// Package langfilter implements the secondary language pass over the
// assembled corpus manifest. It removes records whose text shows a high
// minority-language stopword density, catching statements the per-session
// classification missed, and rewrites all four manifest tables together so
// they never disagree about which records survived.
package langfilter
