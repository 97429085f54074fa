// Package layout positions the nodes and links of a Sankey timeline.
//
// [Build] is a pure function of the timeline's current state: it never
// mutates the timeline and returns a fresh [Result]. [Adjust] runs the same
// passes and then folds the node/link shifts it computed into each node's
// persistent adjustment, which is how step-by-step construction converges.
//
// # Passes
//
//  1. Placement. Key times map linearly onto the timeline's pixel range.
//     Heights are the maximum node height, scaled by size/maxSize when
//     dynamic sizing is on.
//  2. Rows. In id order each node takes the lowest row that is free among
//     the nodes whose [x, x1] spans overlap its own (inclusive) and whose
//     vertical span collides with none of theirs.
//  3. Paths. Provisional Bézier curves between stacked link anchors.
//  4. Shifts. Each node's rectangle is tested against every unrelated
//     ordinary link, widened to its stroke. Crossings above the node's
//     midline push it down, crossings below push it up.
//
// Rows are then assigned again with the shifts applied, y is normalized to
// start at 0 and squeezed into the configured height, and the final link
// paths are built (see package path).
//
// # Degenerate Input
//
// With a single time point, or no nodes, every x collapses to the range
// start. With no positive flow every link gets the base width. Both cases
// are reported on the result rather than failing.
package layout
