// Package dump decodes the engine's binary graph state dumps,
// nodes.bin and edges.bin, and computes summary statistics over them.
// Records are packed little-endian exactly as the engine writes them.
package dump

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"codeberg.org/voss/neuroscope/internal/errors"
)

const (
	nodeHeaderSize = 8 // u32 count, u32 next id
	nodeRecordSize = 34
	edgeHeaderSize = 4 // u32 count
	edgeRecordSize = 34

	// Dump headers are untrusted; preallocation is capped so a corrupt
	// count cannot exhaust memory before the read fails.
	maxPrealloc = 1 << 16
)

// Node is one decoded node record.
type Node struct {
	ID          uint32
	Active      uint8
	PrevActive  uint8
	Threshold   uint16
	InDegree    uint16
	OutDegree   uint16
	LastTick    uint32
	Burst       uint16
	SigHistory  uint32
	IsMeta      uint8
	ClusterID   uint32
	Soma        float32
	Hat         uint8
	ActiveTicks uint16
}

// Edge is one decoded edge record.
type Edge struct {
	Src         uint32
	Dst         uint32
	WFast       uint8
	WSlow       uint8
	Credit      int16
	UseCount    uint16
	StaleTicks  uint16
	Eligibility float32
	C11         float32
	C10         float32
	AvgU        float32
	Countdown   uint16
}

// Graph is a fully decoded dump pair.
type Graph struct {
	Nodes  []Node
	Edges  []Edge
	NextID uint32
}

// Load reads and decodes both dump files.
func Load(nodesPath, edgesPath string) (*Graph, error) {
	nodesFile, err := os.Open(nodesPath)
	if err != nil {
		return nil, errors.Wrap(ErrUnreadable, err)
	}
	defer nodesFile.Close()

	nodes, nextID, err := ReadNodes(bufio.NewReader(nodesFile))
	if err != nil {
		return nil, err
	}

	edgesFile, err := os.Open(edgesPath)
	if err != nil {
		return nil, errors.Wrap(ErrUnreadable, err)
	}
	defer edgesFile.Close()

	edges, err := ReadEdges(bufio.NewReader(edgesFile))
	if err != nil {
		return nil, err
	}

	return &Graph{Nodes: nodes, Edges: edges, NextID: nextID}, nil
}

// ReadNodes decodes a node dump: header, then count packed records. A
// stream shorter than its header claims is an error, not a partial
// result.
func ReadNodes(r io.Reader) ([]Node, uint32, error) {
	var header [nodeHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, 0, errors.Wrap(ErrTruncated, err)
	}

	count := binary.LittleEndian.Uint32(header[0:4])
	nextID := binary.LittleEndian.Uint32(header[4:8])

	nodes := make([]Node, 0, clampPrealloc(count))
	rec := make([]byte, nodeRecordSize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, 0, errors.Wrap(ErrTruncated, err)
		}
		nodes = append(nodes, decodeNode(rec))
	}

	return nodes, nextID, nil
}

// ReadEdges decodes an edge dump.
func ReadEdges(r io.Reader) ([]Edge, error) {
	var header [edgeHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrap(ErrTruncated, err)
	}

	count := binary.LittleEndian.Uint32(header[0:4])

	edges := make([]Edge, 0, clampPrealloc(count))
	rec := make([]byte, edgeRecordSize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, errors.Wrap(ErrTruncated, err)
		}
		edges = append(edges, decodeEdge(rec))
	}

	return edges, nil
}

func decodeNode(rec []byte) Node {
	return Node{
		ID:          binary.LittleEndian.Uint32(rec[0:4]),
		Active:      rec[4],
		PrevActive:  rec[5],
		Threshold:   binary.LittleEndian.Uint16(rec[6:8]),
		InDegree:    binary.LittleEndian.Uint16(rec[8:10]),
		OutDegree:   binary.LittleEndian.Uint16(rec[10:12]),
		LastTick:    binary.LittleEndian.Uint32(rec[12:16]),
		Burst:       binary.LittleEndian.Uint16(rec[16:18]),
		SigHistory:  binary.LittleEndian.Uint32(rec[18:22]),
		IsMeta:      rec[22],
		ClusterID:   binary.LittleEndian.Uint32(rec[23:27]),
		Soma:        math.Float32frombits(binary.LittleEndian.Uint32(rec[27:31])),
		Hat:         rec[31],
		ActiveTicks: binary.LittleEndian.Uint16(rec[32:34]),
	}
}

func decodeEdge(rec []byte) Edge {
	return Edge{
		Src:         binary.LittleEndian.Uint32(rec[0:4]),
		Dst:         binary.LittleEndian.Uint32(rec[4:8]),
		WFast:       rec[8],
		WSlow:       rec[9],
		Credit:      int16(binary.LittleEndian.Uint16(rec[10:12])),
		UseCount:    binary.LittleEndian.Uint16(rec[12:14]),
		StaleTicks:  binary.LittleEndian.Uint16(rec[14:16]),
		Eligibility: math.Float32frombits(binary.LittleEndian.Uint32(rec[16:20])),
		C11:         math.Float32frombits(binary.LittleEndian.Uint32(rec[20:24])),
		C10:         math.Float32frombits(binary.LittleEndian.Uint32(rec[24:28])),
		AvgU:        math.Float32frombits(binary.LittleEndian.Uint32(rec[28:32])),
		Countdown:   binary.LittleEndian.Uint16(rec[32:34]),
	}
}

func clampPrealloc(count uint32) int {
	if count > maxPrealloc {
		return maxPrealloc
	}

	return int(count)
}
