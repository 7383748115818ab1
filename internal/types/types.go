// Package types contains common types used across the gotimer package.
package types

//go:generate go tool errtrace -w .

type ContextKey string
