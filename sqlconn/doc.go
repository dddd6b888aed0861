// Package sqlconn implements the backend.Connector contract against SQL
// engines. The same filter expression the solr connector renders to
// boolean query syntax is rendered here as a parameterized WHERE clause,
// with postgres and sqlite dialects behind a small Dialect interface.
package sqlconn
