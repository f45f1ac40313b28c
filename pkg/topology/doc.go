// Package topology holds the read-only data model of a processing-core mesh.
//
// # Overview
//
// A [Topology] is a rows × columns grid of cores. Each core sits next to one
// router, may have a task allocated to it and owns up to four outgoing
// [Channel] values, one per [Direction]. Cores on the outer edge of the grid
// can carry [BorderEntry] values describing traffic that leaves the grid
// (sinks) or enters it (sources).
//
// The render engine borrows a topology and never mutates it. The index of a
// core in [Topology.Cores] is its id, and the id implies its grid position:
//
//	row    = id / Columns
//	column = id % Columns
//
// # Reading
//
// [ReadJSON] and [ImportJSON] decode the JSON form:
//
//	{
//	  "rows": 2, "columns": 2,
//	  "cores": [
//	    {"attributes": {"temperature": 41}, "task": 3,
//	     "router": {"attributes": {"queue": 2}},
//	     "channels": {"East": {"bandwidth": 100, "load": 20}}}
//	  ],
//	  "tasks": [{"id": 3, "computationCost": 40, "edges": [{"to": 5, "communicationCost": 10}]}],
//	  "borders": {"1": {"North": {"sink": 5}, "East": {"source": 9}}},
//	  "routing": {"0": {"output": {"East": 20}}}
//	}
//
// # Directions
//
// [Direction] is a closed set of four values. Code that dispatches on a
// direction lists all four cases; the fallthrough case panics instead of
// silently doing nothing, so a corrupted value is never mistaken for a
// legitimate no-op.
package topology
