// Package normalize canonicalizes volunteer submissions.
//
// Images are resized so both axes are the same integer multiple of the
// original asset's dimensions and re-encoded as PNG; audio is downmixed,
// resampled to a fixed rate, and re-encoded as Ogg Vorbis through the ffmpeg
// client. Failures caused by the submission itself wrap ErrInvalidSubmission
// so the workflow can reject them without touching claim state.
package normalize
