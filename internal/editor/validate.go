package editor

import (
	"fmt"
	"strings"

	"codeberg.org/archviz/studio/internal/catalog"
)

func DefaultSelections() Selections {
	return Selections{
		Category:      catalog.DefaultCategory,
		RenderStyle:   catalog.DefaultRenderStyle,
		Room:          catalog.DefaultRoom,
		InteriorStyle: catalog.DefaultInteriorStyle,
		PlanStyle:     catalog.DefaultPlanStyle,
		InteriorMode:  catalog.DefaultInteriorMode,
	}
}

// fills defaults and rejects unknown catalog ids; arch style may be free text
func normalizeSelections(sel Selections) (Selections, error) {
	sel.Prompt = strings.TrimSpace(sel.Prompt)
	sel.AdditionalCommand = strings.TrimSpace(sel.AdditionalCommand)
	sel.ArchStyle = strings.TrimSpace(sel.ArchStyle)

	if sel.Category == "" {
		sel.Category = catalog.DefaultCategory
	}

	if !sel.Category.Valid() {
		return Selections{}, fmt.Errorf("%w: category %q", ErrInvalidSelection, sel.Category)
	}

	if sel.InteriorMode == "" {
		sel.InteriorMode = catalog.DefaultInteriorMode
	}

	if !sel.InteriorMode.Valid() {
		return Selections{}, fmt.Errorf("%w: interior mode %q", ErrInvalidSelection, sel.InteriorMode)
	}

	checks := []struct {
		name     string
		value    *string
		fallback string
		options  []catalog.Option
	}{
		{"render style", &sel.RenderStyle, catalog.DefaultRenderStyle, catalog.RenderStyles},
		{"room", &sel.Room, catalog.DefaultRoom, catalog.Rooms},
		{"interior style", &sel.InteriorStyle, catalog.DefaultInteriorStyle, catalog.InteriorStyles},
		{"plan style", &sel.PlanStyle, catalog.DefaultPlanStyle, catalog.PlanStyles},
		{"scene", &sel.Scene, "", catalog.ExteriorScenes},
	}

	for _, c := range checks {
		if *c.value == "" {
			*c.value = c.fallback
			continue
		}

		if _, ok := catalog.Find(c.options, *c.value); !ok {
			return Selections{}, fmt.Errorf("%w: %s %q", ErrInvalidSelection, c.name, *c.value)
		}
	}

	return sel, nil
}

// true when the category has at least one catalog pick
func (sel Selections) hasOption() bool {
	switch sel.Category {
	case catalog.CategoryInterior:
		return sel.Room != "" || sel.InteriorStyle != ""
	case catalog.CategoryPlan:
		return sel.PlanStyle != ""
	default:
		return sel.ArchStyle != "" || sel.Scene != ""
	}
}
