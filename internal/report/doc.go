// Package report turns finished test runs into files and terminal output.
//
// Runs are written by [Store] as a directory per test holding results.json and log.csv.
// [WriteCSV] and [ExportJSON] write the same formats to any writer; [Plot] renders a series
// with asciigraph, [SaveChart] renders PNG charts with gonum/plot, and [Summary] formats
// results for the terminal.
package report
