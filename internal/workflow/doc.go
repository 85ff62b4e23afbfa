// Package workflow coordinates pack lifecycle, claims, and submissions.
//
// The Manager is the single writer for pack state. Packs move provisioning ->
// ready -> completed; claims and submissions resolve to tagged outcomes while
// component failures propagate as errors. Completion is always re-derived
// from the on-disk baseline tree, never cached, so Resume can rebuild the
// whole picture after a restart.
package workflow
