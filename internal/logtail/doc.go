// Package logtail reads the tail of a log file and decodes zap JSON lines.
//
// Read keeps a ring buffer of maxLines strings while scanning the file once,
// so memory stays bounded no matter how large the log grows. Passing zero or
// a negative count reads the whole file. A missing file is not an error; the
// service may simply not have started yet.
//
//	lines, err := logtail.Read(cfg.BackendLogPath(), 200)
//	for _, line := range lines {
//		fmt.Println(logtail.Parse(line))
//	}
//
// Parse understands the production encoder keys (ts, level, logger, msg)
// and turns every other key into a sorted key=value field. Lines that are
// not JSON come back untouched in Entry.Raw, which keeps stray output from
// the access logger readable.
package logtail
