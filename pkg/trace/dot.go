package trace

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// ToDOT renders ops as a Graphviz digraph. Surfaces become nodes; every
// operation becomes an edge labelled with its position in the sequence.
// Draw operations originate from a node named after their layer.
func ToDOT(ops []Op) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\"];\n")
	buf.WriteString("  output [shape=doublecircle];\n")

	for i, op := range ops {
		from, to := edge(op)
		if from == "" {
			fmt.Fprintf(&buf, "  %q [shape=point];\n", fmt.Sprintf("op%d", i))
			from = fmt.Sprintf("op%d", i)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", from, to, fmt.Sprintf("%d %s", i+1, label(op)))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edge(op Op) (string, string) {
	switch op.Kind {
	case KindCopy, KindShift:
		return op.Src, op.Dst
	case KindDraw:
		return op.Phase + " " + op.Layer, op.Dst
	case KindPresent:
		return op.Src, "output"
	case KindOverlay:
		return op.Dst, "output"
	}
	return "", op.Dst
}

func label(op Op) string {
	switch op.Kind {
	case KindCopy:
		return fmt.Sprintf("copy %.2f", op.Alpha)
	case KindDraw:
		return fmt.Sprintf("draw x%d", op.Count)
	case KindShift:
		return fmt.Sprintf("shift %+d,%+d", op.DX, op.DY)
	}
	return string(op.Kind)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz point-based svg header with a
// plain pixel viewBox so browsers scale the diagram.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
