// Package session composes the transport, codec, classifier and cache into the
// client's public operations: fetching puzzle input, example input and puzzle
// text, and submitting answers.
//
// Every operation is one-shot: a fresh TLS stream is opened, exactly one
// request is written, the response is read to end-of-stream, and the stream is
// closed before returning. Nothing is retried. Remote states such as a locked
// puzzle or a wrong answer are returned as classify.Outcome values; only local,
// transport and codec failures are errors.
//
// Fetch operations move Idle -> Fetching -> Cached (content persisted) or
// FetchFailed; Submit moves Idle -> Submitting -> one of Correct, Incorrect,
// WrongLevel, RateLimited or SubmitFailed.
package session
