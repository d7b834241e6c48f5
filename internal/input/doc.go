// Package input turns document files into plain text for annotation.
//
// Supported formats are plain text (.txt), Markdown (.md, .markdown),
// HTML (.html, .htm), PDF (.pdf) and Word (.docx). Every loader returns
// paragraphs separated by blank lines; Load then normalizes the result to
// Unicode NFC so that the annotation engine sees composed characters.
package input
