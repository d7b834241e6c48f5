// Package report renders annotated documents and persists them to disk.
//
// This package contains writers for different output formats:
//   - TextWriter: the line-oriented analysis report
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a sentiment chart
//
// FileWriter places a rendered report into a timestamped file inside the
// output directory. The file only appears under its final name once it is
// complete, and an existing report is never overwritten.
package report
