package files

import (
	"fmt"

	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

//*******************************************
// node weights (.enw)
//*******************************************

func ReadNodeWeights(path string) (Array[int32], error) {
	reader, err := _ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := _VerifyFingerprint(reader, path); err != nil {
		return nil, err
	}
	return ReadArray[int32](reader), nil
}

func WriteNodeWeights(path string, weights Array[int32]) error {
	writer := NewBufferWriter()
	_WriteFingerprint(writer)
	WriteArray(writer, weights)
	return _WriteFileAtomic(path, writer.Bytes())
}

//*******************************************
// node class data (.ebg_nodes)
//*******************************************

func ReadNodeClasses(path string) (Array[uint8], error) {
	reader, err := _ReadFile(path)
	if err != nil {
		return nil, err
	}
	count := Read[int32](reader)
	if count < 0 {
		return nil, fmt.Errorf("truncated node data in %s", path)
	}
	classes := ReadArrayN[uint8](reader, int(count))
	if classes.Length() != int(count) {
		return nil, fmt.Errorf("truncated node data in %s", path)
	}
	return classes, nil
}

func WriteNodeClasses(path string, classes Array[uint8]) error {
	writer := NewBufferWriter()
	WriteArray(writer, classes)
	return _WriteFileAtomic(path, writer.Bytes())
}

//*******************************************
// profile properties (.properties)
//*******************************************

type ProfileProperties struct {
	ExcludableClasses List[uint8]
}

func ReadProfileProperties(path string) (ProfileProperties, error) {
	reader, err := _ReadFile(path)
	if err != nil {
		return ProfileProperties{}, err
	}
	masks := ReadArray[uint8](reader)
	properties := ProfileProperties{
		ExcludableClasses: NewList[uint8](masks.Length()),
	}
	for _, mask := range masks {
		properties.ExcludableClasses.Add(mask)
	}
	return properties, nil
}

func WriteProfileProperties(path string, properties ProfileProperties) error {
	writer := NewBufferWriter()
	masks := NewArray[uint8](properties.ExcludableClasses.Length())
	for i, mask := range properties.ExcludableClasses {
		masks[i] = mask
	}
	WriteArray(writer, masks)
	return _WriteFileAtomic(path, writer.Bytes())
}

//*******************************************
// node levels (.level)
//*******************************************

func ReadLevels(path string) (Array[float32], error) {
	reader, err := _ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadArray[float32](reader), nil
}

func WriteLevels(path string, levels Array[float32]) error {
	writer := NewBufferWriter()
	WriteArray(writer, levels)
	return _WriteFileAtomic(path, writer.Bytes())
}

//*******************************************
// core marker (.core)
//*******************************************

func WriteCoreMarker(path string, is_core Array[bool]) error {
	writer := NewBufferWriter()
	WriteArray(writer, is_core)
	return _WriteFileAtomic(path, writer.Bytes())
}

func ReadCoreMarker(path string) (Array[bool], error) {
	reader, err := _ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadArray[bool](reader), nil
}

//*******************************************
// edge-expanded edges (.ebg)
//*******************************************

func ReadEdges(path string) (List[structs.EdgeBasedEdge], error) {
	reader, err := _ReadFile(path)
	if err != nil {
		return nil, err
	}
	count := Read[int32](reader)
	edges := NewList[structs.EdgeBasedEdge](int(count))
	for i := 0; i < int(count); i++ {
		edge := structs.EdgeBasedEdge{
			Source:   Read[int32](reader),
			Target:   Read[int32](reader),
			TurnID:   Read[int32](reader),
			Weight:   Read[int32](reader),
			Duration: Read[int32](reader),
		}
		flags := Read[uint8](reader)
		edge.Forward = flags&1 != 0
		edge.Backward = flags&2 != 0
		edges.Add(edge)
	}
	return edges, nil
}

func WriteEdges(path string, edges List[structs.EdgeBasedEdge]) error {
	writer := NewBufferWriter()
	Write(writer, int32(edges.Length()))
	for _, edge := range edges {
		Write(writer, edge.Source)
		Write(writer, edge.Target)
		Write(writer, edge.TurnID)
		Write(writer, edge.Weight)
		Write(writer, edge.Duration)
		flags := uint8(0)
		if edge.Forward {
			flags |= 1
		}
		if edge.Backward {
			flags |= 2
		}
		Write(writer, flags)
	}
	return _WriteFileAtomic(path, writer.Bytes())
}
