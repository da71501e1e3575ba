// Package errors provides classified errors for blogbuilder.
//
// Every document-local failure (front-matter, date, markup) is reported as a
// ClassifiedError carrying the document's slug, so the build driver can decide
// whether to abort or skip-and-continue without string matching.
package errors
