package main

import (
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-contractor/comps"
	"github.com/ttpr0/go-contractor/files"
	"github.com/ttpr0/go-contractor/preproc"
	"github.com/ttpr0/go-contractor/structs"
	"github.com/ttpr0/go-contractor/updater"
	. "github.com/ttpr0/go-contractor/util"
)

// By not contracting all contractable nodes in the base pass a very
// dense shared core is avoided. This increases the graph size a little
// but improves the final hierarchy quality and contraction speed.
const BASE_CORE_FACTOR = 0.9

//*******************************************
// driver
//*******************************************

func RunContraction(config Config) error {
	start := time.Now()

	slog.Info("reading node weights")
	node_weights, err := files.ReadNodeWeights(config.Prefix + ".enw")
	if err != nil {
		return err
	}

	slog.Info("loading edge-expanded graph representation")
	updater_config := config.Updater
	if updater_config.EdgeFile == "" {
		updater_config.EdgeFile = config.Prefix + ".ebg"
	}
	upd := updater.NewUpdater(updater_config)
	edge_list, max_node_id, err := upd.LoadAndUpdateEdgeExpandedGraph()
	if err != nil {
		return err
	}
	node_count := int(max_node_id) + 1

	cached_levels := None[Array[float32]]()
	if config.Contraction.UseCachedPriority {
		levels, err := files.ReadLevels(config.Prefix + ".level")
		if err != nil {
			return err
		}
		cached_levels = Some(levels)
	}

	class_data, err := files.ReadNodeClasses(config.Prefix + ".ebg_nodes")
	if err != nil {
		return err
	}
	properties, err := files.ReadProfileProperties(config.Prefix + ".properties")
	if err != nil {
		return err
	}
	if properties.ExcludableClasses.Length() > 0 && class_data.Length() < node_count {
		return fmt.Errorf("truncated node data in %s: %d nodes, expected %d", config.Prefix+".ebg_nodes", class_data.Length(), node_count)
	}
	filters := _ComputeNodeFilters(node_count, class_data, properties.ExcludableClasses)

	graph := comps.NewContractorGraph(node_count, edge_list)
	container := preproc.NewContractedEdgeContainer()
	threads := config.Contraction.Threads
	core_factor := config.Contraction.CoreFactor

	var node_levels Array[float32]
	var is_shared_core Array[bool]
	if filters.Length() == 0 {
		// no exclusion classes: a single full pass at the configured
		// core factor
		always_allowed := NewArray[bool](node_count)
		for i := 0; i < node_count; i++ {
			always_allowed[i] = true
		}
		node_levels, is_shared_core = preproc.ContractGraph(graph, always_allowed, cached_levels, node_weights, core_factor, threads)
		container.Merge(graph.Edges())
	} else {
		always_allowed := NewArray[bool](node_count)
		for i := 0; i < node_count; i++ {
			always_allowed[i] = true
			for _, filter := range filters {
				always_allowed[i] = always_allowed[i] && filter[i]
			}
		}

		base_factor := Min(BASE_CORE_FACTOR, core_factor)
		node_levels, is_shared_core = preproc.ContractGraph(graph, always_allowed, cached_levels, node_weights, base_factor, threads)

		// edges leaving the shared core are final
		non_core_edges := NewList[structs.QueryEdge](100)
		for _, edge := range graph.Edges() {
			if is_shared_core[edge.Source] && is_shared_core[edge.Target] {
				continue
			}
			non_core_edges.Add(edge)
		}
		container.Merge(non_core_edges)

		shared_core_graph := graph.Filter(is_shared_core).ExtractSubgraph()
		for k, filter := range filters {
			slog.Info("contracting filtered core", "filter", k)
			pass_allowed := NewArray[bool](node_count)
			for i := 0; i < node_count; i++ {
				pass_allowed[i] = is_shared_core[i] && filter[i]
			}
			working := shared_core_graph.Filter(pass_allowed).ExtractSubgraph()
			preproc.ContractGraph(working, pass_allowed, cached_levels, node_weights, core_factor, threads)
			container.Merge(working.Edges())
		}
	}

	slog.Info("contracted graph", "edges", container.EdgeCount())

	checksum := files.ComputeChecksum(container.Edges(), container.Flags())
	if err := files.WriteGraph(config.Prefix+".hsgr", checksum, int32(node_count), container.Edges(), container.Flags()); err != nil {
		return err
	}

	is_core := NewArray[bool](0)
	if core_factor < 1.0 {
		is_core = is_shared_core
	}
	if err := files.WriteCoreMarker(config.Prefix+".core", is_core); err != nil {
		return err
	}
	if !config.Contraction.UseCachedPriority {
		if err := files.WriteLevels(config.Prefix+".level", node_levels); err != nil {
			return err
		}
	}

	slog.Info("finished preprocessing", "took", time.Since(start).String())
	return nil
}

// One admissibility filter per excludable class:
// filter[k][v] = (class_data[v] & mask_k) == 0.
func _ComputeNodeFilters(node_count int, class_data Array[uint8], excludable_classes List[uint8]) List[Array[bool]] {
	filters := NewList[Array[bool]](excludable_classes.Length())
	for _, mask := range excludable_classes {
		filter := NewArray[bool](node_count)
		for v := 0; v < node_count; v++ {
			class_value := uint8(0)
			if v < class_data.Length() {
				class_value = class_data[v]
			}
			filter[v] = class_value&mask == 0
		}
		filters.Add(filter)
	}
	return filters
}
