package bnk

import (
	"fmt"
	"strings"

	"github.com/bnkworks/go-bnk/debug"
	"github.com/bnkworks/go-bnk/ir"
)

// Verification findings are collected, never raised: unresolved but
// plausible references are a policy choice (legitimately external or
// streamed content), surfaced for human review.

type FindingKind int

const (
	FindingDuplicateIdentity FindingKind = iota
	FindingOrderViolation
	FindingExternalBankReference
	FindingUnresolvedReference
	FindingMissingRequired
)

func (k FindingKind) String() string {
	switch k {
	case FindingDuplicateIdentity:
		return "duplicate-identity"
	case FindingOrderViolation:
		return "order-violation"
	case FindingExternalBankReference:
		return "external-bank-reference"
	case FindingUnresolvedReference:
		return "unresolved-reference"
	case FindingMissingRequired:
		return "missing-required"
	}
	return "<unknown finding>"
}

// Fatal reports whether a finding kind indicates corruption rather
// than something informational.
func (k FindingKind) Fatal() bool {
	switch k {
	case FindingDuplicateIdentity, FindingOrderViolation, FindingMissingRequired:
		return true
	}
	return false
}

// Finding is one verification diagnostic.
type Finding struct {
	Kind   FindingKind
	NodeID uint32
	Path   string
	Ref    int64
}

func (f Finding) String() string {
	switch f.Kind {
	case FindingDuplicateIdentity:
		return fmt.Sprintf("%d: identity used by more than one node", f.NodeID)
	case FindingOrderViolation:
		return fmt.Sprintf("%d: positioned after its parent %d", f.NodeID, f.Ref)
	case FindingExternalBankReference:
		return fmt.Sprintf("%d: %s: reference to external soundbank %d", f.NodeID, f.Path, f.Ref)
	case FindingUnresolvedReference:
		return fmt.Sprintf("%d: %s: reference %d does not resolve (may be external)", f.NodeID, f.Path, f.Ref)
	case FindingMissingRequired:
		return fmt.Sprintf("required node %d not found", f.NodeID)
	}
	return fmt.Sprintf("%d: %s", f.NodeID, f.Kind)
}

// VerifyOptions controls the scan. With Only set, attribute delving
// is restricted to the listed identities; identity and order
// bookkeeping always covers the whole bank.
type VerifyOptions struct {
	Only []uint32
}

// Integer attributes below this never collide with identities in
// practice; everything at or above it is treated as reference-shaped.
const refThreshold = 1_000_000

// Verify walks Nodes in order, accumulating the identities seen so
// far, and flags duplicate identities, nodes positioned after their
// parent, owning-bank fields disagreeing with the bank's own
// container id, and reference-shaped integers that do not resolve.
// It returns the full list of findings and never fails.
func (b *Bank) Verify(opts VerifyOptions) []Finding {
	var findings []Finding
	seen := map[uint32]bool{0: true}

	var only map[uint32]bool
	if opts.Only != nil {
		only = make(map[uint32]bool, len(opts.Only))
		for _, id := range opts.Only {
			only[id] = true
		}
	}
	verified := map[uint32]bool{}

	for _, n := range b.Nodes {
		if n.rawID != nil {
			// Unrecognized id shape: kept but unindexed, so no
			// identity is available to book-keep or delve under.
			continue
		}
		id := n.ID.Hash()
		if seen[id] {
			findings = append(findings, Finding{Kind: FindingDuplicateIdentity, NodeID: id})
			continue
		}
		seen[id] = true
		if only != nil && !only[id] {
			continue
		}
		verified[id] = true
		findings = delveVerify(n.Body, id, "", b.ContainerID, seen, findings)
	}

	for _, id := range opts.Only {
		if !verified[id] {
			findings = append(findings, Finding{Kind: FindingMissingRequired, NodeID: id})
		}
	}
	if debug.Verify() {
		debug.Logf("bnk: verify bank %d: %d findings\n", b.ContainerID, len(findings))
	}
	return findings
}

func delveVerify(item *ir.Node, nodeID uint32, path string, containerID uint32, seen map[uint32]bool, findings []Finding) []Finding {
	switch item.Type {
	case ir.ArrayType:
		for i, v := range item.Values {
			findings = delveVerify(v, nodeID, fmt.Sprintf("%s:%d", path, i), containerID, seen, findings)
		}
	case ir.ObjectType:
		for i, key := range item.Fields {
			sub := key
			if path != "" {
				sub = path + "/" + key
			}
			findings = delveVerify(item.Values[i], nodeID, sub, containerID, seen, findings)
		}
	case ir.IntType:
		if item.Int < refThreshold || item.Int > 0xFFFFFFFF {
			return findings
		}
		ref := uint32(item.Int)
		switch {
		case strings.HasSuffix(path, "source_id"):
			// Payloads live outside the object list.
		case strings.HasSuffix(path, "bank_id"):
			if ref != containerID {
				findings = append(findings, Finding{
					Kind: FindingExternalBankReference, NodeID: nodeID, Path: path, Ref: item.Int,
				})
			}
		case strings.HasSuffix(path, "direct_parent_id"):
			if seen[ref] {
				findings = append(findings, Finding{
					Kind: FindingOrderViolation, NodeID: nodeID, Path: path, Ref: item.Int,
				})
			}
		default:
			if !seen[ref] {
				findings = append(findings, Finding{
					Kind: FindingUnresolvedReference, NodeID: nodeID, Path: path, Ref: item.Int,
				})
			}
		}
	}
	return findings
}
