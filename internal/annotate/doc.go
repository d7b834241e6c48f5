// Package annotate connects nlpreport to the annotation engine.
//
// The engine itself is external: tokenization, tagging, parsing, sentiment
// scoring and coreference resolution are done by a Stanford CoreNLP server.
// This package defines the Engine interface the rest of the program depends
// on, the StageConfig that selects which annotators run, and two engines:
//
//   - CoreNLPClient talks to a CoreNLP server over HTTP/JSON.
//   - FileEngine replays a CoreNLP JSON document saved to disk, which is
//     useful offline and in tests.
//
// Both decode the CoreNLP JSON output format into a model.Document.
package annotate
