package prompt

import "codeberg.org/archviz/studio/internal/catalog"

// everything prompt assembly reads
type Input struct {
	Category          catalog.Category
	RenderStyle       string
	ArchStyle         string
	Scene             string
	Room              string
	InteriorStyle     string
	PlanStyle         string
	InteriorMode      catalog.InteriorMode
	Prompt            string
	AdditionalCommand string
	HasMain           bool
	HasReference      bool
}

// fixed instruction text
const (
	exteriorBase = "Generate a high quality image of exterior view. "
	interiorBase = "Generate a high quality interior design image. "
	planBase     = "Generate a high quality architectural floor plan. "

	interiorFrom2DBase = "Transform this 2D floor plan into a highly realistic 3D interior perspective view. Extrude the walls, add a ceiling, and render the room from an eye-level human perspective. IMPORTANT: You must strictly adhere to the furniture positions shown in the plan. Do not add new furniture and do not remove existing furniture. Keep the layout exactly as is. Apply realistic materials (flooring, wall paint) and lighting. "
	interiorFrom3DBase = "Transform this 3D architectural plan/section into a highly realistic interior perspective view. IMPORTANT: You must strictly adhere to the furniture positions shown in the image. Do not add new furniture and do not remove existing furniture. Enhance textures, lighting, and details to make it look like a real photo. "

	planIsoConversion = " [Instruction]: STRICT CONVERSION. Convert this 2D plan into a 3D Isometric view. You MUST preserve the exact wall layout, proportions, and furniture placement of the source image. Do not change the design. Only change the perspective to 3D Isometric."
	planRedraw        = " [Instruction]: Analyze this image (sketch or plan). Redraw it as a high-quality floor plan in the specified style, maintaining the layout but enhancing clarity and aesthetics."
	strictConstraint  = " [STRICT CONSTRAINT]: Preserve the original image style, camera angle, composition, and lighting exactly. Do not change the overall look. "

	blendInstruction       = " [Instruction]: Use the first image as the main structural base. Use the second image as a reference for style. Blend the aesthetic of the second image into the first image."
	furnitureInstruction   = " [Instruction]: Strictly follow the furniture layout and structure of the provided image."
	compositionInstruction = " [Instruction]: You must use the provided image as the strict reference for composition. DO NOT change the style. DO NOT change the overall structure."
	styleRefInstruction    = " [Instruction]: Use this image as a style reference."
)
