package database

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind is the closed set of store failure classes callers branch on.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindConflict
	KindForeignKey
	KindUndefinedTable
	KindInsufficientPrivilege
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForeignKey:
		return "foreign_key"
	case KindUndefinedTable:
		return "undefined_table"
	case KindInsufficientPrivilege:
		return "insufficient_privilege"
	default:
		return "unknown"
	}
}

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation       = "23505"
	codeForeignKeyViolation   = "23503"
	codeUndefinedTable        = "42P01"
	codeInsufficientPrivilege = "42501"
)

// Classify maps a pgx error onto an ErrorKind. A nil error is KindUnknown.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return KindConflict
		case codeForeignKeyViolation:
			return KindForeignKey
		case codeUndefinedTable:
			return KindUndefinedTable
		case codeInsufficientPrivilege:
			return KindInsufficientPrivilege
		}
	}
	return KindUnknown
}

func IsNotFound(err error) bool { return Classify(err) == KindNotFound }

func IsConflict(err error) bool { return Classify(err) == KindConflict }
