package langdef

import (
	"github.com/ava12/meta"
	"github.com/ava12/meta/source"
)

// Error codes used by converter:
const (
	// DuplicateIndexError indicates that two declarations share the same index.
	DuplicateIndexError = meta.LangDefErrors + iota

	// MissingRuleError indicates declaration or composite rule without nested rule.
	MissingRuleError

	// UnknownKindError indicates node of unknown rule kind in event stream.
	UnknownKindError

	// WrongIndexError indicates declaration index that is not an integer.
	WrongIndexError
)

type errorPos struct {
	src *source.Source
}

func (ep errorPos) format(offset, code int, msg string, params ...any) *meta.Error {
	if ep.src == nil {
		return meta.FormatError(code, msg, params...)
	}

	return meta.FormatErrorPos(source.NewPos(ep.src, offset), code, msg, params...)
}

func (ep errorPos) duplicateIndexError(offset, index int) *meta.Error {
	return ep.format(offset, DuplicateIndexError, "rule index %d is already declared", index)
}

func (ep errorPos) missingRuleError(offset int, kind string) *meta.Error {
	return ep.format(offset, MissingRuleError, "%s requires a nested rule", kind)
}

func (ep errorPos) unknownKindError(offset int, kind string) *meta.Error {
	return ep.format(offset, UnknownKindError, "unknown rule kind %q", kind)
}

func (ep errorPos) wrongIndexError(offset int, index float64) *meta.Error {
	return ep.format(offset, WrongIndexError, "rule index %v is not an integer", index)
}
