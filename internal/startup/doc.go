// Package startup loads and validates configuration for the media
// picker CLI from environment variables.
//
// Every setting has a default, so a bare invocation with just ASSET_DIR
// set works. Directories are created and write-tested at load time;
// optional features degrade with a warning instead of failing the run.
package startup
