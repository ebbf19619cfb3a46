package storage

import "emailcleaner/pkg/serrors"

// Transaction misuse is a programming error, hence internal.
var (
	// ErrAlreadyInTx is returned by Begin on a handle that is already a transaction.
	ErrAlreadyInTx = serrors.With(serrors.ErrInternal, "storage handle is already in a transaction")
	// ErrNotInTx is returned by Commit and Rollback on a handle outside a transaction.
	ErrNotInTx = serrors.With(serrors.ErrInternal, "storage handle is not in a transaction")
)
