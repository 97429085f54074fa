// Package io reads and writes timeline definition files.
//
// A definition lists nodes (a label plus either start/end times or a mean and
// standard deviation) and links (source label, target label, flow), with an
// optional layout table. The same document can be written as TOML, YAML or
// JSON; the format is chosen by file extension.
//
//	[layout]
//	range = [0, 1200]
//	height = 500
//
//	[[nodes]]
//	label = "fetch"
//	start = 0
//	end = "00:05:00"
//
//	[[nodes]]
//	label = "deploy"
//	mean = 900
//	std = 60
//
//	[[links]]
//	source = "fetch"
//	target = "deploy"
//	flow = 3
//
// # Times
//
// Time fields accept numbers or clock strings ("hh:mm:ss", "mm:ss"); TOML
// local times are accepted as well. Unparsable values are kept as NaN so the
// diagram can degrade them (lenient) or reject them (strict).
//
// # Validation
//
// [Definition.Validate] checks the document shape with go-playground
// validator tags and reports every problem in one INVALID_INPUT error. Link
// endpoints are resolved when the definition is applied to a diagram, where
// a missing label fails with UNKNOWN_REFERENCE.
package io
