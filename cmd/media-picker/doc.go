// Command media-picker drives the crop-session export pipeline from the
// command line: it scans a directory of media into a selection,
// optionally replays a crop-session JSON file against it, and exports
// the results with progress logging.
//
// Configuration is environment-based (a .env file next to the binary is
// honored). With METRICS_ENABLED=true, a Prometheus endpoint is served
// on METRICS_PORT for the duration of the run.
//
// Typical use:
//
//	ASSET_DIR=~/Pictures/roll OUTPUT_DIR=./out SESSION_FILE=session.json media-picker
package main
