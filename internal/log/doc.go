// Package log provides the console logging used by nlpreport, built on top of
// the standard slog package.
//
// ConsoleHandler renders records as single lines prefixed with the level:
//
//	[INFO] Created output directory: /home/user/results
//	[SUCCESS] Results written to: results/analysis_output_20250101_120000.txt
//	[ERROR] Cannot write to file: results/analysis_output_20250101_120000.txt details="permission denied"
//	[FATAL] Unexpected error: annotation failed
//
// Two levels are added on top of slog's defaults: LevelSuccess (between INFO
// and WARN) and LevelFatal (above ERROR). Informational records go to the
// standard output writer, warnings and worse go to the error writer.
//
// RedactHandler wraps any handler and masks credentials before they are
// written, such as passwords embedded in the annotation server URL.
//
// # Usage
//
//	logger := log.NewConsoleLogger(os.Stdout, os.Stderr, verbose)
//	log.Success(ctx, logger, "Results written to: "+path)
package log
