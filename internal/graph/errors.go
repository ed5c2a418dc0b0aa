package graph

import "errors"

// ErrGraphBuildFailed is returned when the input feature set is empty or
// every feature was malformed, leaving nothing to build a graph from.
var ErrGraphBuildFailed = errors.New("graph: build failed, no usable line features")

// ErrEmptyLargestComponent is returned when the largest connected component
// has fewer than MinLargestComponent nodes, signalling a misconfigured or
// too-sparse input graph.
var ErrEmptyLargestComponent = errors.New("graph: largest connected component is too small")

// MinLargestComponent is the minimum node count the largest component must
// reach for the graph to be considered usable.
const MinLargestComponent = 100
