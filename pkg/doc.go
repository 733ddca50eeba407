// Package pkg provides the libraries behind gitlanes commit graph layouts.
//
// # Overview
//
// gitlanes assigns every commit of a history to a lane and computes the
// lines, curves and dots a history view draws. The pkg directory is
// organized by stage:
//
//  1. [feed] - Commit feeds (git repositories, JSON, git log text)
//  2. [lanes] - The lane engine (BuildGraph, windows, merged flags)
//  3. [graph] - The serialized layout document
//  4. [render] - SVG, text, DOT, PNG and PDF output
//  5. [pipeline] - Orchestration (feed → layout → render) with caching
//  6. [cache], [store] - Caches and saved layout snapshots
//
// # Architecture
//
// The typical data flow:
//
//	git repository or feed file
//	         ↓
//	    [feed] package (newest-first commits with parents)
//	         ↓
//	    [lanes] package (lane per commit, lines, links, dots)
//	         ↓
//	    [graph] package (layout document)
//	         ↓
//	    SVG/text/JSON/DOT/PNG/PDF output
//
// # Quick Start
//
//	commits, err := feed.Load(ctx, repo, feed.Options{Limit: 500})
//	if err != nil {
//	    return err
//	}
//	g := lanes.Build(feed.Refs(commits))
//	layout := graph.FromLanes(commits, g, 0)
//	svg := sink.RenderSVG(layout)
//
// Most callers use [pipeline.Runner], which adds caching and format
// selection on top of the same steps.
package pkg
