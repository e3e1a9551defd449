package repositories

import "context"

// TxFn is the unit of work run by ExecTx. Repository calls made with the ctx
// it receives join the surrounding transaction.
type TxFn func(ctx context.Context) error

// TransactionManager groups repository writes, such as a folder share check
// and its snapshot insert, into one transaction
type TransactionManager interface {
	// ExecTx commits when fn returns nil and rolls back otherwise.
	// Nested calls reuse the outer transaction.
	ExecTx(ctx context.Context, fn TxFn) error
}
