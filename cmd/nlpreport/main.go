// Package main provides the entry point for the nlpreport CLI.
//
// nlpreport sends text to a Stanford CoreNLP server and writes the
// linguistic analysis (sentences, sentiment, parse trees, dependencies,
// entities, coreference chains) to a timestamped report file.
//
// Usage:
//
//	nlpreport
//	nlpreport analyze notes.txt
//	nlpreport batch a.txt b.md c.pdf
//
// See --help for all available options.
package main

// main is the entry point for nlpreport.
func main() {
	Execute()
}
