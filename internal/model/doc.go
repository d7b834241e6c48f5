// Package model defines the core data structures used throughout nlpreport.
//
// This package contains the following main types:
//   - Document: an annotated text with its sentences and coreference chains
//   - Sentence: one sentence with sentiment, parse, dependencies and entities
//   - CorefChain: a set of mentions that refer to the same entity
//   - Run: the state of a single analysis run as it moves through the pipeline
//
// Multiple packages (annotate, report, pipeline, database) share these types,
// so they live in their own package to avoid import cycles.
//
// The models serialize to JSON for report output and history storage.
package model
