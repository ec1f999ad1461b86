// Package prompt assembles the text sent to the image generator from the
// editor's selections. Assembly is pure: equal inputs give byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"codeberg.org/archviz/studio/internal/catalog"
)

// assembles the full prompt
func Build(in Input) string {
	var b strings.Builder

	keyword := catalog.RenderKeyword(in.RenderStyle)

	switch in.Category {
	case catalog.CategoryInterior:
		writeInterior(&b, in, keyword)
	case catalog.CategoryPlan:
		writePlan(&b, in, keyword)
	default:
		writeExterior(&b, in, keyword)
	}

	writeStructural(&b, in)

	fmt.Fprintf(&b, "Exclude: %s.", catalog.NegativePrompt)

	writeFinalInstruction(&b, in)

	return b.String()
}

func writeInterior(b *strings.Builder, in Input, keyword string) {
	switch {
	case in.InteriorMode == catalog.ModeFrom2D && in.HasMain:
		b.WriteString(interiorFrom2DBase)
	case in.InteriorMode == catalog.ModeFrom3D && in.HasMain:
		b.WriteString(interiorFrom3DBase)
	default:
		b.WriteString(interiorBase)
	}

	if room, ok := catalog.Find(catalog.Rooms, in.Room); ok {
		fmt.Fprintf(b, "%s. ", room.Prompt)
	}

	if style, ok := catalog.Find(catalog.InteriorStyles, in.InteriorStyle); ok {
		fmt.Fprintf(b, "%s. ", style.Prompt)
	}

	if in.Prompt != "" {
		fmt.Fprintf(b, "Additional Details: %s. ", in.Prompt)
	}

	fmt.Fprintf(b, "Render Style: %s. ", keyword)
}

func writePlan(b *strings.Builder, in Input, keyword string) {
	b.WriteString(planBase)

	if style, ok := catalog.Find(catalog.PlanStyles, in.PlanStyle); ok {
		fmt.Fprintf(b, "%s. ", style.Prompt)
	}

	if in.Prompt != "" {
		fmt.Fprintf(b, "Description: %s. ", in.Prompt)
	}

	fmt.Fprintf(b, "Render Style: %s. ", keyword)
}

func writeExterior(b *strings.Builder, in Input, keyword string) {
	b.WriteString(exteriorBase)

	// scene text already ends with a period
	if scene, ok := catalog.Find(catalog.ExteriorScenes, in.Scene); ok {
		fmt.Fprintf(b, "%s ", scene.Prompt)
	}

	if in.ArchStyle != "" {
		text := in.ArchStyle
		if style, ok := catalog.Find(catalog.ArchStyles, in.ArchStyle); ok {
			text = style.Prompt
		}
		fmt.Fprintf(b, "Architecture Style: %s. ", text)
	}

	if in.Prompt != "" {
		fmt.Fprintf(b, "Additional Details: %s. ", in.Prompt)
	}

	fmt.Fprintf(b, "Render Style: %s. ", keyword)
}

// preservation clause for edits of an existing image
func writeStructural(b *strings.Builder, in Input) {
	if !in.HasMain {
		if in.AdditionalCommand != "" {
			fmt.Fprintf(b, "Additional details: %s. ", in.AdditionalCommand)
		}
		return
	}

	switch {
	case in.Category == catalog.CategoryPlan:
		if in.PlanStyle == "iso_structure" {
			b.WriteString(planIsoConversion)
		} else {
			b.WriteString(planRedraw)
		}

	case in.Category == catalog.CategoryInterior && isConversionMode(in.InteriorMode):
		// base sentence already describes the conversion

	default:
		b.WriteString(strictConstraint)

		if in.AdditionalCommand != "" {
			fmt.Fprintf(b, "ACTION: Add or modify elements based strictly on this command: \"%s\". Do not remove existing elements unless asked. ", in.AdditionalCommand)
		} else if in.Prompt != "" {
			fmt.Fprintf(b, "ACTION: Edit based on: \"%s\". Keep everything else exactly the same. ", in.Prompt)
		}
	}
}

func writeFinalInstruction(b *strings.Builder, in Input) {
	switch {
	case in.HasMain && in.HasReference:
		b.WriteString(blendInstruction)

	case in.HasMain:
		switch {
		case in.Category == catalog.CategoryPlan:
		case in.Category == catalog.CategoryInterior && isConversionMode(in.InteriorMode):
			b.WriteString(furnitureInstruction)
		default:
			b.WriteString(compositionInstruction)
		}

	case in.HasReference:
		b.WriteString(styleRefInstruction)
	}
}

func isConversionMode(m catalog.InteriorMode) bool {
	return m == catalog.ModeFrom2D || m == catalog.ModeFrom3D
}
