package disk

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/hupe1980/graphgo/internal/conv"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/property"
)

// Storage names.
const (
	relationshipsStorage = "relationships"
	nodesStorage         = "nodes"
	edgesStorage         = "edges"
)

// relationshipRecord layout: id u64, name length u32 (UTF-16 code units),
// then two bytes per code unit.
type relationshipRecord struct {
	id   model.RelationshipID
	name string
}

func (r relationshipRecord) ID() uint64 { return uint64(r.id) }

func (r relationshipRecord) MarshalBinary() ([]byte, error) {
	units := utf16.Encode([]rune(r.name))
	n, err := conv.IntToUint32(len(units))
	if err != nil {
		return nil, fmt.Errorf("relationship %d: name: %w", r.id, err)
	}
	buf := make([]byte, 12, 12+2*len(units))
	binary.BigEndian.PutUint64(buf[0:8], uint64(r.id))
	binary.BigEndian.PutUint32(buf[8:12], n)
	for _, u := range units {
		buf = binary.BigEndian.AppendUint16(buf, u)
	}
	return buf, nil
}

func decodeRelationship(data []byte) (relationshipRecord, error) {
	if len(data) < 12 {
		return relationshipRecord{}, fmt.Errorf("relationship record: %d bytes, need at least 12", len(data))
	}
	n := binary.BigEndian.Uint32(data[8:12])
	if uint64(len(data)) != 12+2*uint64(n) {
		return relationshipRecord{}, fmt.Errorf("relationship record: %d bytes for %d code units", len(data), n)
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(data[12+2*i:])
	}
	return relationshipRecord{
		id:   model.RelationshipID(binary.BigEndian.Uint64(data[0:8])),
		name: string(utf16.Decode(units)),
	}, nil
}

// nodeRecord layout: id u64, then the property map encoding up to the end
// of the allocation.
type nodeRecord struct {
	id    model.NodeID
	props property.Map
}

func (r nodeRecord) ID() uint64 { return uint64(r.id) }

func (r nodeRecord) MarshalBinary() ([]byte, error) {
	buf := binary.BigEndian.AppendUint64(make([]byte, 0, 8+16*len(r.props)), uint64(r.id))
	return r.props.AppendBinary(buf)
}

func decodeNode(data []byte) (nodeRecord, error) {
	if len(data) < 8 {
		return nodeRecord{}, fmt.Errorf("node record: %d bytes, need at least 8", len(data))
	}
	var props property.Map
	if err := props.UnmarshalBinary(data[8:]); err != nil {
		return nodeRecord{}, fmt.Errorf("node record: %w", err)
	}
	return nodeRecord{
		id:    model.NodeID(binary.BigEndian.Uint64(data[0:8])),
		props: props,
	}, nil
}
