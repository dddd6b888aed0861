// Package solr translates the generic querybridge query model into the
// Solr select API: boolean query-string compilation with escaping and
// range merging, parameter-map assembly, form-encoded transport against a
// rotating set of base URLs, and response normalization.
package solr
