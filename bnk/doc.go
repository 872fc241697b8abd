// Package bnk models a soundbank: an ordered sequence of typed
// objects ("nodes") forming an implicit tree connected by numeric
// identity references.
//
// The order of Bank.Nodes is semantically significant: a node must
// precede its parent, and must follow every child it structurally
// lists. Insertion maintains this invariant; existing entries are
// never reordered. The derived identity index is rebuildable at any
// time and never the source of truth.
//
// A Bank and everything in it is single-threaded state: callers must
// serialize all access to one Bank instance.
package bnk
