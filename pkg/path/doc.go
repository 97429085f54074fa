// Package path builds the drawable geometry of Sankey timeline links.
//
// A [Path] is a descriptor, not a drawing: either one cubic Bézier (ordinary
// links and self-loops) or an ordered list of move/line/arc [Segment]s
// (circular links). [Path.D] renders it as SVG path data for renderers that
// want a string.
//
// # Link Kinds
//
// Ordinary links run from the source's right edge to the target's left edge
// with both control points pushed out horizontally by the curve width, which
// gives the usual flow-diagram S-curve.
//
// Self-loops leave the right edge and come back into the left edge of the
// same node, bulging past the node's top (or bottom) by the curve height so
// the loop stays clear of the node body.
//
// Circular links that close a longer cycle are routed around the diagram:
// out of the source, a quarter arc turning toward the assigned side, a
// vertical run, a quarter arc onto a horizontal run beyond every node, and the
// mirror image back into the target. The arc radius grows with the link id
// so circular links on the same side nest instead of overlapping. Top routes
// turn counter-clockwise (sweep 0) and bottom routes clockwise (sweep 1).
//
// # Stacking
//
// [Stack] spreads the links entering or leaving one node along its edge:
// starting from the bottom, each earlier ordinary link pushes the next one up
// by its width while each earlier circular link pulls it down.
package path
