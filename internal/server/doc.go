// Package server implements the MCP (Model Context Protocol) server that exposes
// the red ring detector as tools.
//
// This package provides a JSON-RPC 2.0 server so that MCP-compatible clients can
// check single images for a red ring, fetch a crop around it, or run a whole
// folder scan and verify its manifest.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Detection:
//   - ring_detect: Detect a ring, optionally returning an annotated overlay
//   - ring_crop: Detect a ring and return a square crop around it
//
// Batch:
//   - ring_scan: Run a folder scan and write matched.manifest
//   - manifest_verify: Check an output folder against its digest
//
// Housekeeping:
//   - cache_clear: Drop cached images
//
// # Image Caching
//
// Images decoded by ring_detect and ring_crop are cached by path for the
// lifetime of the server. Pass reload to ring_detect, or call cache_clear,
// after a file changes on disk. ring_scan always decodes from disk.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A rejected image is not an error: ring_detect reports found=false with the
// rejecting reason.
//
// # Usage
//
//	srv := server.New(detector, logger, version)
//	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil {
//	    logger.Fatal().Err(err).Msg("server error")
//	}
//
// The logger must write to stderr or a file, never to stdout.
package server
