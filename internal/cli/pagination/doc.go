// Package pagination pages and sorts list output of the CLI, such as the
// items of a batch run. Offset mode (--limit/--offset) and page mode
// (--page/--page-size) are mutually exclusive.
package pagination
