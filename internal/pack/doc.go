// Package pack models one crowdsourcing run on disk.
//
// A pack root contains the immutable original_assets baseline, the new_assets
// replacement tree, and the assignment database. Completion is derived, never
// cached: accepting a submission deletes its baseline file, so a pack is
// complete exactly when no distributable files remain under original_assets.
// Archive assembles the final deliverable from the replacement tree plus a
// generated metadata document.
package pack
