// Package logging builds balloon's slog loggers.
//
// Two formats are supported. "console" writes one line per record with the
// timestamp, level, an optional component prefix and key=value pairs.
// "json" uses slog's JSON handler with the keys renamed to ts, level and msg.
// Source locations are added at debug level.
//
// Output paths may be files, "stdout" or "stderr"; duplicates are written
// once and parent directories of files are created on demand. New returns
// a closer for the files it opened; close it when the logger is retired.
package logging
