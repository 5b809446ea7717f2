// Package output renders userdir-cli results as a table, JSON or YAML.
//
// Table output is for people: user lists carry their index column because
// records are addressed by position. JSON and YAML are for scripts and
// emit the data exactly as the server returned it.
package output
