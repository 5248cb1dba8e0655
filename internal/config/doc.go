// Package config provides configuration loading, merging, and validation
// facilities for the sync server and client daemon.
//
// Configuration is assembled from multiple sources in the following priority
// order (an earlier source wins for every field it sets; later sources fill
// the gaps):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetConfigs], which both binaries call at startup.
package config
