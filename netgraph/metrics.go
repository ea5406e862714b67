// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package netgraph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("snarltree.netgraph")

// followEdgesCases counts FollowEdges calls by which structural case
// (bounded, chain, unary or ordinary) handled them; each call is counted
// once, however many neighbors it reports.
var followEdgesCases = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "netgraph_follow_edges_total",
	Help: "FollowEdges calls by structural case",
}, []string{"case"})
