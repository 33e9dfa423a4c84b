// Package ingest implements the per-question upload pipeline: validate the
// request, persist the raw media, extract audio, transcribe, and commit the
// result into the session record and transcript document.
//
// The pipeline deliberately favors availability of the raw artifact over
// completeness of the derived transcript: extraction and transcription
// failures are downgraded to a sentinel transcript value and the upload
// still commits, because losing a candidate's video over an STT hiccup is
// worse than an incomplete transcript. Only validation and storage failures
// abort a request.
//
// The commit step runs the whole load-mutate-save sequence under the store's
// per-session lock, so concurrent uploads to different question indices both
// land and concurrent uploads to the same index resolve to exactly one
// request's record.
package ingest
