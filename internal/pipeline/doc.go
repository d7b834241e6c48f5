// Package pipeline runs an analysis as a sequence of steps.
//
// A run loads its input, sends the text to the annotation engine, makes sure
// the output directory exists, writes the report file and finally records the
// run in the history database. Each stage is a Step that receives the
// model.Run and fills in its part; the pipeline stops at the first failing
// step, so no report is written for a run that failed earlier.
//
// BatchProcessor runs one pipeline per input with bounded concurrency using
// errgroup.
package pipeline
