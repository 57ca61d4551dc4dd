// Package telemetry defines the BAS data model and ingestion of the raw
// exports: per-room sensor series, the outdoor-air series, and the static
// room-statistics table.
//
// Exports arrive as comma- or semicolon-delimited CSV (occasionally xlsx)
// with vendor column names such as RmTmp, RmTmpCspt and RmTmpHpst. Readers
// normalize timestamps, map columns by loose header matching, drop malformed
// rows with a warning, and return series sorted by timestamp.
package telemetry
