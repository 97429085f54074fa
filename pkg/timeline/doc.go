// Package timeline provides the graph model behind a Sankey timeline: nodes
// that occupy an interval of time and weighted links that carry flow between
// them.
//
// # Overview
//
// A [Timeline] owns its nodes and links in dense, id-indexed slices. Ids are
// assigned in creation order starting at 0, separately for nodes and links,
// and are never reused. Nodes and links are never deleted.
//
//	tl := timeline.New()
//	a := tl.CreateNode("fetch", timeline.Interval(0, 5))
//	b := tl.CreateNode("build", timeline.Interval(4, 12))
//	link, err := tl.CreateLink(a, timeline.Label("build"), 3)
//
// Link endpoints are given as a [Ref]: a *[Node], a [NodeID] or a [Label].
// An endpoint that does not resolve fails with an UNKNOWN_REFERENCE error and
// leaves the timeline unchanged.
//
// # Time
//
// A node's time is a [TimeSpec]: either an explicit interval or a mean with a
// standard deviation. [TimeSpec.KeyTimes] reduces both to a [start, end]
// pair. Malformed input (NaN, infinities, end before start, negative
// deviation) degrades to a zero-width interval instead of failing;
// [TimeSpec.Validate] reports the problem for callers that want a strict
// contract.
//
// # Circular Links
//
// Every insertion re-runs cycle classification over the deduplicated link
// adjacency (see package circuit). A link is circular when it is a self-loop
// or the closing edge of an elementary circuit at the moment it is inserted.
// The flag is never re-evaluated later. Circular links are routed above
// ([SideTop]) or below ([SideBottom]) the diagram; the side is inherited from
// an endpoint that already carries a circular link, preferring the source,
// and otherwise balanced against the running per-side counts.
//
// # Layout State
//
// The timeline also holds the pixel range that time is mapped onto and each
// node's accumulated vertical adjustment. Positions themselves are produced
// by package layout as a separate result and never stored here.
package timeline
