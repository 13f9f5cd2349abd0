// Package executor applies a reconciled action plan item-by-item
// against a backend installer. Two failure policies exist: best-effort
// batches (brew, store) record failures and keep going; fail-fast
// sequences (deployment labels) abort on the first failure because
// later items may depend on earlier ones.
package executor
