package dump_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/voss/neuroscope/internal/dump"
	"codeberg.org/voss/neuroscope/internal/errors"
)

func encodeNode(n dump.Node) []byte {
	rec := make([]byte, 34)
	binary.LittleEndian.PutUint32(rec[0:4], n.ID)
	rec[4] = n.Active
	rec[5] = n.PrevActive
	binary.LittleEndian.PutUint16(rec[6:8], n.Threshold)
	binary.LittleEndian.PutUint16(rec[8:10], n.InDegree)
	binary.LittleEndian.PutUint16(rec[10:12], n.OutDegree)
	binary.LittleEndian.PutUint32(rec[12:16], n.LastTick)
	binary.LittleEndian.PutUint16(rec[16:18], n.Burst)
	binary.LittleEndian.PutUint32(rec[18:22], n.SigHistory)
	rec[22] = n.IsMeta
	binary.LittleEndian.PutUint32(rec[23:27], n.ClusterID)
	binary.LittleEndian.PutUint32(rec[27:31], math.Float32bits(n.Soma))
	rec[31] = n.Hat
	binary.LittleEndian.PutUint16(rec[32:34], n.ActiveTicks)

	return rec
}

func encodeEdge(e dump.Edge) []byte {
	rec := make([]byte, 34)
	binary.LittleEndian.PutUint32(rec[0:4], e.Src)
	binary.LittleEndian.PutUint32(rec[4:8], e.Dst)
	rec[8] = e.WFast
	rec[9] = e.WSlow
	binary.LittleEndian.PutUint16(rec[10:12], uint16(e.Credit))
	binary.LittleEndian.PutUint16(rec[12:14], e.UseCount)
	binary.LittleEndian.PutUint16(rec[14:16], e.StaleTicks)
	binary.LittleEndian.PutUint32(rec[16:20], math.Float32bits(e.Eligibility))
	binary.LittleEndian.PutUint32(rec[20:24], math.Float32bits(e.C11))
	binary.LittleEndian.PutUint32(rec[24:28], math.Float32bits(e.C10))
	binary.LittleEndian.PutUint32(rec[28:32], math.Float32bits(e.AvgU))
	binary.LittleEndian.PutUint16(rec[32:34], e.Countdown)

	return rec
}

func nodeDump(nextID uint32, nodes ...dump.Node) []byte {
	var buf bytes.Buffer
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(nodes)))
	binary.LittleEndian.PutUint32(header[4:8], nextID)
	buf.Write(header)
	for _, n := range nodes {
		buf.Write(encodeNode(n))
	}

	return buf.Bytes()
}

func edgeDump(edges ...dump.Edge) []byte {
	var buf bytes.Buffer
	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, uint32(len(edges)))
	buf.Write(header)
	for _, e := range edges {
		buf.Write(encodeEdge(e))
	}

	return buf.Bytes()
}

func TestReadNodes(t *testing.T) {
	want := []dump.Node{
		{
			ID: 0, Active: 1, PrevActive: 0, Threshold: 500,
			InDegree: 3, OutDegree: 7, LastTick: 123456, Burst: 2,
			SigHistory: 0xdeadbeef, IsMeta: 1, ClusterID: 42,
			Soma: 1.5, Hat: 9, ActiveTicks: 77,
		},
		{ID: 1, Threshold: 250, InDegree: 1, OutDegree: 1, Soma: -0.25},
	}

	nodes, nextID, err := dump.ReadNodes(bytes.NewReader(nodeDump(7, want...)))
	require.NoError(t, err)

	assert.Equal(t, uint32(7), nextID)
	assert.Equal(t, want, nodes)
}

func TestReadEdges(t *testing.T) {
	want := []dump.Edge{
		{
			Src: 1, Dst: 2, WFast: 200, WSlow: 100, Credit: -5,
			UseCount: 17, StaleTicks: 3, Eligibility: 0.5,
			C11: 1.25, C10: -2.5, AvgU: 0.125, Countdown: 11,
		},
		{Src: 2, Dst: 0, WFast: 10, WSlow: 20, Credit: 300},
	}

	edges, err := dump.ReadEdges(bytes.NewReader(edgeDump(want...)))
	require.NoError(t, err)

	assert.Equal(t, want, edges)
}

func TestReadTruncatedDumps(t *testing.T) {
	// Header promises two nodes but only one record follows.
	data := nodeDump(9, dump.Node{ID: 0}, dump.Node{ID: 1})
	_, _, err := dump.ReadNodes(bytes.NewReader(data[:len(data)-10]))
	require.Error(t, err)
	assert.Equal(t, dump.ErrTruncated, errors.CodeOf(err))

	// Not even a complete header.
	_, _, err = dump.ReadNodes(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
	assert.Equal(t, dump.ErrTruncated, errors.CodeOf(err))

	edges := edgeDump(dump.Edge{Src: 1, Dst: 2})
	_, err = dump.ReadEdges(bytes.NewReader(edges[:len(edges)-1]))
	require.Error(t, err)
	assert.Equal(t, dump.ErrTruncated, errors.CodeOf(err))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "nodes.bin")
	edgesPath := filepath.Join(dir, "edges.bin")

	require.NoError(t, os.WriteFile(nodesPath, nodeDump(3, dump.Node{ID: 0}, dump.Node{ID: 1}), 0o644))
	require.NoError(t, os.WriteFile(edgesPath, edgeDump(dump.Edge{Src: 0, Dst: 1}), 0o644))

	g, err := dump.Load(nodesPath, edgesPath)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
	assert.Equal(t, uint32(3), g.NextID)

	_, err = dump.Load(filepath.Join(dir, "missing.bin"), edgesPath)
	require.Error(t, err)
	assert.Equal(t, dump.ErrUnreadable, errors.CodeOf(err))
}

func TestStats(t *testing.T) {
	g := &dump.Graph{
		NextID: 9,
		Nodes: []dump.Node{
			{ID: 0, Active: 1, Threshold: 100, InDegree: 1, OutDegree: 2},
			{ID: 1, Active: 0, Threshold: 200, InDegree: 0, OutDegree: 0},
			{ID: 2, Active: 1, Threshold: 300, InDegree: 5, OutDegree: 4},
		},
		Edges: []dump.Edge{
			{Src: 0, Dst: 1, WFast: 10, WSlow: 10, Credit: 5, UseCount: 2},
			{Src: 1, Dst: 2, WFast: 200, WSlow: 50, Credit: -3, UseCount: 8},
		},
	}

	nodeStats := g.NodeStats()
	assert.Equal(t, 3, nodeStats.Total)
	assert.Equal(t, 2, nodeStats.Active)
	assert.InDelta(t, 200.0, nodeStats.MeanThreshold, 1e-9)
	assert.InDelta(t, 2.0, nodeStats.MeanInDegree, 1e-9)
	assert.InDelta(t, 2.0, nodeStats.MeanOutDegree, 1e-9)
	require.Len(t, nodeStats.Hubs, 3)
	assert.Equal(t, uint32(2), nodeStats.Hubs[0].ID, "Expected the highest-degree node first")

	edgeStats := g.EdgeStats()
	assert.Equal(t, 2, edgeStats.Total)
	assert.InDelta(t, 105.0, edgeStats.MeanWFast, 1e-9)
	assert.InDelta(t, 30.0, edgeStats.MeanWSlow, 1e-9)
	assert.InDelta(t, 1.0, edgeStats.MeanCredit, 1e-9)
	assert.InDelta(t, 5.0, edgeStats.MeanUse, 1e-9)
	assert.Equal(t, uint32(1), edgeStats.Strongest[0].Src, "Expected the heaviest edge first")
	assert.Equal(t, dump.Edge{Src: 0, Dst: 1, WFast: 10, WSlow: 10, Credit: 5, UseCount: 2}, edgeStats.HighCredit[0])

	in, out := g.DegreeDistribution()
	assert.Equal(t, map[int]int{0: 1, 1: 1, 5: 1}, in)
	assert.Equal(t, map[int]int{0: 1, 2: 1, 4: 1}, out)
}

func TestWriteReport(t *testing.T) {
	g := &dump.Graph{
		NextID: 9,
		Nodes: []dump.Node{
			{ID: 0, Active: 1, Threshold: 100, InDegree: 1, OutDegree: 2},
			{ID: 1, Active: 0, Threshold: 200, InDegree: 0, OutDegree: 0},
			{ID: 2, Active: 1, Threshold: 300, InDegree: 5, OutDegree: 4},
		},
		Edges: []dump.Edge{
			{Src: 0, Dst: 1, WFast: 10, WSlow: 10, Credit: 5, UseCount: 2},
			{Src: 1, Dst: 2, WFast: 200, WSlow: 50, Credit: -3, UseCount: 8},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, dump.WriteReport(&buf, g))
	report := buf.String()

	assert.Contains(t, report, "Total Nodes: 3")
	assert.Contains(t, report, "Active: 2 (66.7%)")
	assert.Contains(t, report, "Avg Threshold: 200.0")
	assert.Contains(t, report, "1. Node 2: in=5, out=4, total=9")
	assert.Contains(t, report, "Total Edges: 2")
	assert.Contains(t, report, "Avg Fast Weight: 105.00")
	assert.Contains(t, report, "1. 1 -> 2: w_fast=200, w_slow=50, credit=-3, uses=8")
	assert.Contains(t, report, "1. 0 -> 1: credit=5, w_fast=10, w_slow=10")
	assert.Contains(t, report, "Degree Distribution:")
	assert.Contains(t, report, "    5: 1 nodes")
	assert.Contains(t, report, "Next Node ID: 9")
}

func TestWriteReportEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dump.WriteReport(&buf, &dump.Graph{}))
	report := buf.String()

	assert.Contains(t, report, "Total Nodes: 0")
	assert.Contains(t, report, "Total Edges: 0")
	assert.NotContains(t, report, "NaN")
}
