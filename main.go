// Package main hosts the aocbud command-line entrypoint.
//
// Architecture overview:
//   - Transport: internal/transport opens one TLS stream per operation, writes a single request and reads until
//     the peer closes. There is no connection reuse, redirect handling or retry.
//   - Codec & classifier: internal/codec renders the fixed HTTP/1.1 request and splits the reply at the first blank
//     line; internal/classify maps the body onto an Outcome (locked, not found, content, correct, incorrect, wrong
//     level, rate limited) using the site's literal wording.
//   - Cache: internal/cache keeps one file per (kind, day, year) under cache.dir, optionally mirrored to GCS so
//     several machines share downloads. Entries are never re-validated.
//   - Session: internal/session composes the above and records each submission in the history store (memory or
//     Postgres).
//   - Configuration & plumbing: Viper populates config from a file, a .env file and AOC_* env vars; zap logs to
//     stderr; Prometheus counters are written to a node-exporter textfile on exit when metrics.textfile is set.
//
// Quick checklist:
//   - Put AOC_SESSION=<cookie value> in the environment or a .env file.
//   - aocbud input --day 1 --year 2023 > input.txt
//   - aocbud submit 1 12345
package main

import (
	"github.com/JakeFAU/aocbud/cmd"
)

func main() {
	cmd.Execute()
}
