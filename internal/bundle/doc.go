// Package bundle acquires the source asset tree for a new pack.
//
// Versions are sanitized, fetched as repository zipballs under an overall
// timeout, streamed to disk, and extracted into the pack's original_assets
// baseline with the zipball's wrapper directory flattened away. Failures are
// definitive; callers discard the pack root rather than keep partial state.
package bundle
