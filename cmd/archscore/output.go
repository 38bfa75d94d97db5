package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/archscore/internal/client"
	"github.com/alfredjeanlab/archscore/internal/engine"
	"github.com/alfredjeanlab/archscore/internal/events"
	"github.com/alfredjeanlab/archscore/internal/model"
	"github.com/alfredjeanlab/archscore/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printComponentList(w io.Writer, comps []model.Component) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tSCORE\tVARIANTS\tNAME")
	for i := range comps {
		c := &comps[i]
		score := engine.OverallScore(engine.EffectiveMetrics(c, c.DefaultVariantID()))
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%s\n", c.ID, c.Category, score, len(c.Variants), c.Name)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d components\n", len(comps))
}

func printComponent(w io.Writer, c *model.Component) {
	fmt.Fprintf(w, "ID:          %s\n", c.ID)
	fmt.Fprintf(w, "Name:        %s\n", c.Name)
	fmt.Fprintf(w, "Category:    %s\n", c.Category)
	if c.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", c.Description)
	}

	fmt.Fprintln(w, "\nMetrics:")
	printMetrics(w, c.Metrics)

	for _, v := range c.Variants {
		fmt.Fprintf(w, "\nVariant %s (%s):", ui.RenderAccent(v.ID), v.Name)
		if len(v.Metrics) == 0 {
			fmt.Fprintln(w, " base metrics")
			continue
		}
		fmt.Fprintln(w)
		printMetrics(w, v.Metrics)
	}

	if len(c.Compatibility) > 0 {
		fmt.Fprintln(w, "\nIncompatible with:")
		cats := make([]string, 0, len(c.Compatibility))
		for cat := range c.Compatibility {
			cats = append(cats, string(cat))
		}
		sort.Strings(cats)
		for _, cat := range cats {
			fmt.Fprintf(w, "  %s: %s\n", cat, c.Compatibility[model.ComponentCategory(cat)])
		}
	}
}

func printMetrics(w io.Writer, metrics []model.MetricValue) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, m := range metrics {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\n", name, m.Category, m.Value, m.NumericValue)
	}
	tw.Flush()
}

func printTiers(w io.Writer, tiers []model.TierDefinition) {
	for i, t := range tiers {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, ui.RenderAccent(t.Name), t.ID)
		if t.Description != "" {
			fmt.Fprintf(w, "   %s\n", ui.RenderMuted(t.Description))
		}
		for _, r := range t.Requirements {
			fmt.Fprintf(w, "   - %s\n", describeRequirement(r))
		}
	}
}

func describeRequirement(r model.Requirement) string {
	switch req := r.(type) {
	case model.MinComponents:
		return fmt.Sprintf("at least %d components", req.Count)
	case model.MinCategoryScore:
		return fmt.Sprintf("%s score of at least %.1f", req.Category, req.Score)
	case model.RequiredCategories:
		cats := make([]string, len(req.Categories))
		for i, c := range req.Categories {
			cats[i] = string(c)
		}
		return "includes " + strings.Join(cats, ", ")
	case model.MinDistinctCategories:
		return fmt.Sprintf("at least %d distinct categories", req.Count)
	default:
		return string(r.Kind())
	}
}

func printScore(w io.Writer, res *client.ScoreResult) {
	aggStatus := engine.HeatmapStatus(res.AggregateScore)
	fmt.Fprintf(w, "Architecture score: %s %s\n\n", ui.RenderScore(res.AggregateScore, aggStatus), ui.ScoreBar(res.AggregateScore, aggStatus))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, cs := range res.CategoryScores {
		if !cs.HasData {
			fmt.Fprintf(tw, "%s\t%s\t\n", cs.Name, ui.RenderMuted("no data"))
			continue
		}
		st := engine.HeatmapStatus(cs.Score)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", cs.Name, ui.RenderScore(cs.Score, st), ui.ScoreBar(cs.Score, st))
	}
	tw.Flush()

	fmt.Fprintln(w, "\nNodes:")
	printNodeHeatmap(w, res.Nodes, res.NodeHeatmap)

	if len(res.EdgeHeatmap) > 0 {
		fmt.Fprintln(w, "\nEdges:")
		ids := sortedKeys(res.EdgeHeatmap)
		for _, id := range ids {
			fmt.Fprintf(w, "  %s\t%s\n", id, ui.RenderStatus(res.EdgeHeatmap[id]))
		}
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w, "\nCompatibility warnings:")
		for _, wn := range res.Warnings {
			fmt.Fprintf(w, "  %s (%s -> %s): %s\n", wn.EdgeID, wn.SourceNodeID, wn.TargetNodeID, wn.Reason)
		}
	}

	if res.Tier != nil {
		fmt.Fprintln(w)
		printTierResult(w, res.Tier)
	}
}

func printNodeHeatmap(w io.Writer, nodes map[string]model.RecalculatedMetrics, heat map[string]model.HeatmapStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, id := range sortedKeys(nodes) {
		rm := nodes[id]
		comp := rm.ComponentID
		if rm.Placeholder {
			comp += " " + ui.RenderMuted("(unresolved)")
		}
		st := heat[id]
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", id, comp, ui.RenderScore(rm.OverallScore, st), ui.RenderStatus(st))
	}
	tw.Flush()
}

func printTierResult(w io.Writer, tr *model.TierResult) {
	if tr.Current != nil {
		fmt.Fprintf(w, "Tier: %s\n", ui.RenderAccent(tr.Current.Name))
	} else {
		fmt.Fprintf(w, "Tier: %s\n", ui.RenderMuted("none"))
	}
	if tr.IsMaxTier {
		fmt.Fprintln(w, "Highest tier reached.")
		return
	}
	if tr.Next == nil {
		return
	}
	fmt.Fprintf(w, "Next: %s\n", tr.Next.Name)
	for _, g := range tr.Gaps {
		fmt.Fprintf(w, "  - %s (current %s)\n", g.Description, formatGapValue(g))
	}
}

func formatGapValue(g model.RequirementGap) string {
	if g.Kind == model.RequireMinCategoryScore {
		return fmt.Sprintf("%.1f", g.Current)
	}
	if len(g.Missing) > 0 {
		cats := make([]string, len(g.Missing))
		for i, c := range g.Missing {
			cats[i] = string(c)
		}
		return "missing " + strings.Join(cats, ", ")
	}
	return fmt.Sprintf("%d", int(g.Current))
}

func printRecalculation(w io.Writer, ev *events.RecalculationCompleted) {
	fmt.Fprintf(w, "Recalculation %s from %s: %d nodes, %dms\n",
		ev.ID, ui.RenderAccent(ev.ChangedNodeID), len(ev.AffectedNodes), ev.TotalDelayMs)
	if ev.Result == nil {
		return
	}
	printHops(w, ev.Result.PropagationHops)

	fmt.Fprintln(w)
	heat := engine.ArchitectureHeatmap(engine.NodeScores(ev.Result.Metrics))
	printNodeHeatmap(w, ev.Result.Metrics, heat)
}

func printHops(w io.Writer, hops []model.PropagationHop) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOP\tNODE\tDELAY")
	for _, h := range hops {
		fmt.Fprintf(tw, "%d\t%s\t%dms\n", h.HopIndex, h.NodeID, h.DelayMs)
	}
	tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
