package qcbor

import "github.com/plietar/qcbor/errs"

// Thin call-site wrappers around errs sentinels, named after the condition
// they report rather than their numeric band, mirroring how mebo's blob
// package wraps errs.ErrX with fmt.Errorf at each call site.

func errHitEnd() error      { return errs.ErrHitEnd }
func errBadInt() error      { return errs.ErrBadInt }
func errUnsupported() error { return errs.ErrUnsupported }
func errBadBreak() error    { return errs.ErrBadBreak }

func errIndefiniteStringChunk() error    { return errs.ErrIndefiniteStringChunk }
func errBadNestingTooDeep() error        { return errs.ErrBadNestingTooDeep }
func errArrayDecodeTooLong() error       { return errs.ErrArrayDecodeTooLong }
func errMapLabelType() error             { return errs.ErrMapLabelType }
func errUnrecoverableTagContent() error  { return errs.ErrUnrecoverableTagContent }
func errNoStringAllocator() error        { return errs.ErrNoStringAllocator }
func errMemPoolTooSmall() error          { return errs.ErrMemPoolTooSmall }
func errTooManyTags() error              { return errs.ErrTooManyTags }
func errDateOverflow() error             { return errs.ErrDateOverflow }
func errIntOverflow() error              { return errs.ErrIntOverflow }
func errNoMoreItems() error              { return errs.ErrNoMoreItems }
func errUnexpectedType() error           { return errs.ErrUnexpectedType }
func errLabelNotFound() error            { return errs.ErrLabelNotFound }
func errDuplicateLabel() error           { return errs.ErrDuplicateLabel }
func errExitMismatch() error             { return errs.ErrExitMismatch }
func errConversionUnderOverFlow() error  { return errs.ErrConversionUnderOverFlow }
func errNumberSignConversion() error     { return errs.ErrNumberSignConversion }
