// Package circuit enumerates the elementary circuits of a directed graph.
//
// Vertices are dense integers 0..n-1 and the graph is given as an adjacency
// list. [Elementary] implements Johnson's algorithm ("Finding all the
// elementary circuits of a directed graph", SIAM J. Comput. 1975): it walks
// the strongly connected components of the subgraphs induced by vertices
// s, s+1, ... and reports every simple cycle exactly once.
//
// # Circuit Form
//
// Each circuit is reported as a closed walk that starts and ends at its least
// vertex, so a 3-cycle through 2, 5 and 4 comes back as [2 5 4 2] and a
// self-loop on 7 as [7 7]. The final step of a circuit, from c[len-2] to
// c[len-1], is its closing edge: the edge that re-enters the least vertex.
//
// Sankey timelines use the closing edge to decide which link of a cycle is
// routed as a circular arc.
package circuit
