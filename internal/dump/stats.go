package dump

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	topCount            = 5
	maxDistributionRows = 10
	dividerWidth        = 60
)

// NodeStats summarizes the node population.
type NodeStats struct {
	Total         int
	Active        int
	MeanThreshold float64
	MeanInDegree  float64
	MeanOutDegree float64
	Hubs          []Node
}

// EdgeStats summarizes the edge population.
type EdgeStats struct {
	Total      int
	MeanWFast  float64
	MeanWSlow  float64
	MeanCredit float64
	MeanUse    float64
	Strongest  []Edge
	HighCredit []Edge
}

// NodeStats computes totals, means and the top hubs by combined
// degree.
func (g *Graph) NodeStats() NodeStats {
	stats := NodeStats{Total: len(g.Nodes)}
	if stats.Total == 0 {
		return stats
	}

	var thresholdSum, inSum, outSum float64
	for _, n := range g.Nodes {
		if n.Active == 1 {
			stats.Active++
		}
		thresholdSum += float64(n.Threshold)
		inSum += float64(n.InDegree)
		outSum += float64(n.OutDegree)
	}

	total := float64(stats.Total)
	stats.MeanThreshold = thresholdSum / total
	stats.MeanInDegree = inSum / total
	stats.MeanOutDegree = outSum / total

	hubs := make([]Node, len(g.Nodes))
	copy(hubs, g.Nodes)
	sort.SliceStable(hubs, func(i, j int) bool {
		return totalDegree(hubs[i]) > totalDegree(hubs[j])
	})
	if len(hubs) > topCount {
		hubs = hubs[:topCount]
	}
	stats.Hubs = hubs

	return stats
}

// EdgeStats computes totals, means and the top edges by weight and by
// credit.
func (g *Graph) EdgeStats() EdgeStats {
	stats := EdgeStats{Total: len(g.Edges)}
	if stats.Total == 0 {
		return stats
	}

	var fastSum, slowSum, creditSum, useSum float64
	for _, e := range g.Edges {
		fastSum += float64(e.WFast)
		slowSum += float64(e.WSlow)
		creditSum += float64(e.Credit)
		useSum += float64(e.UseCount)
	}

	total := float64(stats.Total)
	stats.MeanWFast = fastSum / total
	stats.MeanWSlow = slowSum / total
	stats.MeanCredit = creditSum / total
	stats.MeanUse = useSum / total

	strongest := make([]Edge, len(g.Edges))
	copy(strongest, g.Edges)
	sort.SliceStable(strongest, func(i, j int) bool {
		return totalWeight(strongest[i]) > totalWeight(strongest[j])
	})
	if len(strongest) > topCount {
		strongest = strongest[:topCount]
	}
	stats.Strongest = strongest

	highCredit := make([]Edge, len(g.Edges))
	copy(highCredit, g.Edges)
	sort.SliceStable(highCredit, func(i, j int) bool {
		return highCredit[i].Credit > highCredit[j].Credit
	})
	if len(highCredit) > topCount {
		highCredit = highCredit[:topCount]
	}
	stats.HighCredit = highCredit

	return stats
}

// DegreeDistribution counts nodes per in-degree and per out-degree.
func (g *Graph) DegreeDistribution() (in, out map[int]int) {
	in = make(map[int]int)
	out = make(map[int]int)
	for _, n := range g.Nodes {
		in[int(n.InDegree)]++
		out[int(n.OutDegree)]++
	}

	return in, out
}

// WriteReport prints the full analysis in the engine's dump-report
// format.
func WriteReport(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	divider := strings.Repeat("=", dividerWidth)

	fmt.Fprintln(bw, divider)
	fmt.Fprintln(bw, "GRAPH ANALYSIS")
	fmt.Fprintln(bw, divider)
	fmt.Fprintln(bw)

	nodeStats := g.NodeStats()
	fmt.Fprintf(bw, "Total Nodes: %d\n", nodeStats.Total)
	if nodeStats.Total > 0 {
		activePct := float64(nodeStats.Active) / float64(nodeStats.Total) * 100
		fmt.Fprintf(bw, "  Active: %d (%.1f%%)\n", nodeStats.Active, activePct)
		fmt.Fprintf(bw, "  Avg Threshold: %.1f\n", nodeStats.MeanThreshold)
		fmt.Fprintf(bw, "  Avg In-Degree: %.2f\n", nodeStats.MeanInDegree)
		fmt.Fprintf(bw, "  Avg Out-Degree: %.2f\n", nodeStats.MeanOutDegree)

		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Top Hub Nodes:")
		for i, n := range nodeStats.Hubs {
			fmt.Fprintf(bw, "  %d. Node %d: in=%d, out=%d, total=%d\n",
				i+1, n.ID, n.InDegree, n.OutDegree, totalDegree(n))
		}
	}

	fmt.Fprintln(bw)

	edgeStats := g.EdgeStats()
	fmt.Fprintf(bw, "Total Edges: %d\n", edgeStats.Total)
	if edgeStats.Total > 0 {
		fmt.Fprintf(bw, "  Avg Fast Weight: %.2f\n", edgeStats.MeanWFast)
		fmt.Fprintf(bw, "  Avg Slow Weight: %.2f\n", edgeStats.MeanWSlow)
		fmt.Fprintf(bw, "  Avg Credit: %.2f\n", edgeStats.MeanCredit)
		fmt.Fprintf(bw, "  Avg Use Count: %.2f\n", edgeStats.MeanUse)

		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Top Strongest Edges:")
		for i, e := range edgeStats.Strongest {
			fmt.Fprintf(bw, "  %d. %d -> %d: w_fast=%d, w_slow=%d, credit=%d, uses=%d\n",
				i+1, e.Src, e.Dst, e.WFast, e.WSlow, e.Credit, e.UseCount)
		}

		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Top High-Credit Edges:")
		for i, e := range edgeStats.HighCredit {
			fmt.Fprintf(bw, "  %d. %d -> %d: credit=%d, w_fast=%d, w_slow=%d\n",
				i+1, e.Src, e.Dst, e.Credit, e.WFast, e.WSlow)
		}
	}

	if nodeStats.Total > 0 && edgeStats.Total > 0 {
		inDist, outDist := g.DegreeDistribution()
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Degree Distribution:")
		fmt.Fprintln(bw, "  In-Degree:")
		writeDistribution(bw, inDist)
		fmt.Fprintln(bw, "  Out-Degree:")
		writeDistribution(bw, outDist)
	}

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Next Node ID: %d\n", g.NextID)

	return bw.Flush()
}

func writeDistribution(w io.Writer, dist map[int]int) {
	degrees := make([]int, 0, len(dist))
	for deg := range dist {
		degrees = append(degrees, deg)
	}
	sort.Ints(degrees)
	if len(degrees) > maxDistributionRows {
		degrees = degrees[:maxDistributionRows]
	}

	for _, deg := range degrees {
		fmt.Fprintf(w, "    %d: %d nodes\n", deg, dist[deg])
	}
}

func totalDegree(n Node) int {
	return int(n.InDegree) + int(n.OutDegree)
}

func totalWeight(e Edge) int {
	return int(e.WFast) + int(e.WSlow)
}
