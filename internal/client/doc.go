// Package client assembles the sync daemon: per-type engine workers, their
// local models, the engine loop, and the background job that exchanges data
// with the server over HTTP.
package client
