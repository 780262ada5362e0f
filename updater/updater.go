package updater

import (
	"fmt"
	"os"

	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-contractor/files"
	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

//*******************************************
// updater
//*******************************************

type Config struct {
	// Edge-expanded edge list; derived from the run prefix when empty.
	EdgeFile string `yaml:"edge-file"`
	// Optional csv with weight patches applied after loading.
	SpeedFile string `yaml:"speed-file"`
}

type IUpdater interface {
	LoadAndUpdateEdgeExpandedGraph() (List[structs.EdgeBasedEdge], int32, error)
}

var _ IUpdater = &Updater{}

// Loads the edge-expanded graph and applies optional weight updates
// before contraction.
type Updater struct {
	config Config
}

func NewUpdater(config Config) *Updater {
	return &Updater{
		config: config,
	}
}

type _SpeedRecord struct {
	Source   int32 `csv:"source"`
	Target   int32 `csv:"target"`
	Weight   int32 `csv:"weight"`
	Duration int32 `csv:"duration"`
}

// Returns the loaded edge list and the maximum node id.
func (self *Updater) LoadAndUpdateEdgeExpandedGraph() (List[structs.EdgeBasedEdge], int32, error) {
	edges, err := files.ReadEdges(self.config.EdgeFile)
	if err != nil {
		return nil, 0, err
	}

	if self.config.SpeedFile != "" {
		if _, err := os.Stat(self.config.SpeedFile); err != nil {
			return nil, 0, fmt.Errorf("reading %s: %w", self.config.SpeedFile, err)
		}
		patches := NewDict[Tuple[int32, int32], _SpeedRecord](10)
		ReadCSVFromFile[_SpeedRecord](self.config.SpeedFile, ',')(func(record _SpeedRecord) bool {
			patches[MakeTuple(record.Source, record.Target)] = record
			return true
		})
		patched := 0
		for i := 0; i < edges.Length(); i++ {
			key := MakeTuple(edges[i].Source, edges[i].Target)
			if !patches.ContainsKey(key) {
				continue
			}
			record := patches[key]
			edges[i].Weight = record.Weight
			edges[i].Duration = record.Duration
			patched += 1
		}
		slog.Info("applied speed updates", "patched", patched)
	}

	max_node_id := int32(-1)
	for _, edge := range edges {
		if edge.Source > max_node_id {
			max_node_id = edge.Source
		}
		if edge.Target > max_node_id {
			max_node_id = edge.Target
		}
	}
	return edges, max_node_id, nil
}
