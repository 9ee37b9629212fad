// Package ledgertest provides in-memory implementations of the ledger
// interfaces to be used in tests.
package ledgertest
