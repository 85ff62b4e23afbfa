// Package ffmpeg wraps the ffmpeg CLI for audio normalization.
//
// The client pipes submission bytes through stdin and reads the re-encoded
// Ogg Vorbis stream from stdout, so no temporary files are created. Exit
// failures are classified as decode errors (bad input) while launch failures
// surface as ordinary errors. An Executor seam keeps tests hermetic.
package ffmpeg
