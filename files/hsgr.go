package files

import (
	"fmt"
	"hash/crc32"

	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

//*******************************************
// query graph (.hsgr)
//*******************************************

// Serializes the edge sequence for checksumming and for the flat edge
// array of the graph file.
func SerializeEdges(edges List[structs.QueryEdge], flags List[uint8]) []byte {
	writer := NewBufferWriter()
	for i, edge := range edges {
		Write(writer, edge.Source)
		Write(writer, edge.Target)
		Write(writer, edge.Data.Weight)
		Write(writer, edge.Data.Duration)
		Write(writer, edge.Data.ID)
		Write(writer, edge.Data.OriginalEdges)
		bits := uint8(0)
		if edge.Data.Shortcut {
			bits |= 1
		}
		if edge.Data.Forward {
			bits |= 2
		}
		if edge.Data.Backward {
			bits |= 4
		}
		Write(writer, bits)
		if flags.Length() > 0 {
			Write(writer, flags[i])
		} else {
			Write(writer, uint8(1))
		}
	}
	return writer.Bytes()
}

func ComputeChecksum(edges List[structs.QueryEdge], flags List[uint8]) uint32 {
	return crc32.ChecksumIEEE(SerializeEdges(edges, flags))
}

// Writes the query graph: checksum, node count, compressed-sparse-row
// offsets per node and the flat edge array. Edges have to be sorted by
// source.
func WriteGraph(path string, checksum uint32, node_count int32, edges List[structs.QueryEdge], flags List[uint8]) error {
	offsets := NewArray[int32](int(node_count) + 1)
	for _, edge := range edges {
		offsets[edge.Source+1] += 1
	}
	for i := 1; i < offsets.Length(); i++ {
		offsets[i] += offsets[i-1]
	}

	writer := NewBufferWriter()
	Write(writer, checksum)
	Write(writer, node_count)
	Write(writer, int32(edges.Length()))
	Write(writer, offsets)
	edge_bytes := SerializeEdges(edges, flags)
	Write(writer, edge_bytes)
	return _WriteFileAtomic(path, writer.Bytes())
}

// Reads back a query graph file, mainly for verification.
func ReadGraph(path string) (uint32, int32, List[structs.QueryEdge], List[uint8], error) {
	reader, err := _ReadFile(path)
	if err != nil {
		return 0, 0, nil, nil, err
	}
	checksum := Read[uint32](reader)
	node_count := Read[int32](reader)
	edge_count := Read[int32](reader)
	offsets := ReadArrayN[int32](reader, int(node_count)+1)
	if offsets.Length() != int(node_count)+1 {
		return 0, 0, nil, nil, fmt.Errorf("truncated graph file %s", path)
	}
	edges := NewList[structs.QueryEdge](int(edge_count))
	flags := NewList[uint8](int(edge_count))
	for i := 0; i < int(edge_count); i++ {
		edge := structs.QueryEdge{
			Source: Read[int32](reader),
			Target: Read[int32](reader),
		}
		edge.Data.Weight = Read[int32](reader)
		edge.Data.Duration = Read[int32](reader)
		edge.Data.ID = Read[int32](reader)
		edge.Data.OriginalEdges = Read[int32](reader)
		bits := Read[uint8](reader)
		edge.Data.Shortcut = bits&1 != 0
		edge.Data.Forward = bits&2 != 0
		edge.Data.Backward = bits&4 != 0
		edges.Add(edge)
		flags.Add(Read[uint8](reader))
	}
	return checksum, node_count, edges, flags, nil
}
