package errors

import crdb "github.com/cockroachdb/errors"

// Re-exports of github.com/cockroachdb/errors so callers need a single import.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Mark   = crdb.Mark
	Join   = crdb.Join
	Unwrap = crdb.Unwrap
)
