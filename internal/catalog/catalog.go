// Package catalog holds the fixed presets the editor offers. Every option
// carries a prompt fragment that is used verbatim when a prompt is assembled.
package catalog

import "strings"

type Option struct {
	ID      string `json:"id"`
	LabelEN string `json:"label_en"`
	LabelTH string `json:"label_th"`
	Prompt  string `json:"-"`
}

// editor tab that decides the base instruction
type Category string

const (
	CategoryExterior Category = "exterior"
	CategoryInterior Category = "interior"
	CategoryPlan     Category = "plan"
)

// interior generation sub-mode
type InteriorMode string

const (
	ModeStandard InteriorMode = "standard"
	ModeFrom2D   InteriorMode = "from_2d"
	ModeFrom3D   InteriorMode = "from_3d"
)

type Language string

const (
	LangEN Language = "EN"
	LangTH Language = "TH"
)

// editor defaults on a fresh session
const (
	DefaultCategory      = CategoryExterior
	DefaultRenderStyle   = "photo"
	DefaultRoom          = "living"
	DefaultInteriorStyle = "modern"
	DefaultPlanStyle     = "blueprint"
	DefaultInteriorMode  = ModeStandard
	DefaultLanguage      = LangEN
)

func (c Category) Valid() bool {
	switch c {
	case CategoryExterior, CategoryInterior, CategoryPlan:
		return true
	}
	return false
}

func (m InteriorMode) Valid() bool {
	switch m {
	case ModeStandard, ModeFrom2D, ModeFrom3D:
		return true
	}
	return false
}

// parses a language tag, falling back to EN
func ParseLanguage(raw string) Language {
	if strings.EqualFold(strings.TrimSpace(raw), string(LangTH)) {
		return LangTH
	}
	return LangEN
}

// returns the label for the given language
func (o Option) Label(lang Language) string {
	if lang == LangTH && o.LabelTH != "" {
		return o.LabelTH
	}
	return o.LabelEN
}

// finds an option by id
func Find(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// returns the render keyword, using photo for unknown ids
func RenderKeyword(id string) string {
	if o, ok := Find(RenderStyles, id); ok {
		return o.Prompt
	}

	o, _ := Find(RenderStyles, DefaultRenderStyle)
	return o.Prompt
}

type LocalizedOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// catalog listing returned to clients
type Listing struct {
	Language       Language          `json:"language"`
	Rooms          []LocalizedOption `json:"rooms"`
	InteriorStyles []LocalizedOption `json:"interior_styles"`
	PlanStyles     []LocalizedOption `json:"plan_styles"`
	ExteriorScenes []LocalizedOption `json:"exterior_scenes"`
	ArchStyles     []LocalizedOption `json:"arch_styles"`
	RenderStyles   []LocalizedOption `json:"render_styles"`
	InteriorModes  []InteriorMode    `json:"interior_modes"`
}

// builds the listing for a language
func List(lang Language) Listing {
	return Listing{
		Language:       lang,
		Rooms:          localize(Rooms, lang),
		InteriorStyles: localize(InteriorStyles, lang),
		PlanStyles:     localize(PlanStyles, lang),
		ExteriorScenes: localize(ExteriorScenes, lang),
		ArchStyles:     localize(ArchStyles, lang),
		RenderStyles:   localize(RenderStyles, lang),
		InteriorModes:  []InteriorMode{ModeStandard, ModeFrom2D, ModeFrom3D},
	}
}

func localize(options []Option, lang Language) []LocalizedOption {
	out := make([]LocalizedOption, len(options))
	for i, o := range options {
		out[i] = LocalizedOption{ID: o.ID, Label: o.Label(lang)}
	}
	return out
}
