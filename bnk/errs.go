package bnk

import (
	"errors"
	"fmt"
)

var (
	ErrBadDocument        = errors.New("bnk: malformed soundbank document")
	ErrDuplicateIdentity  = errors.New("bnk: duplicate identity")
	ErrInvalidIdentity    = errors.New("bnk: invalid identity")
	ErrMissingParent      = errors.New("bnk: missing parent attribute")
	ErrOrderingInfeasible = errors.New("bnk: no feasible insertion position")
	ErrParentCycle        = errors.New("bnk: parent chain contains a cycle")
	ErrEventNotFound      = errors.New("bnk: event not found")
	ErrNodeNotFound       = errors.New("bnk: node not found")
)

// CycleError reports a loop in a parent chain, carrying the walked
// chain for diagnosis.
type CycleError struct {
	Entry uint32
	At    uint32
	Chain []uint32
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: chain for %d loops at %d (chain %v)",
		ErrParentCycle, e.Entry, e.At, e.Chain)
}

func (e *CycleError) Unwrap() error {
	return ErrParentCycle
}
