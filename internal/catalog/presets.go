package catalog

// appended to every assembled prompt as the exclusion clause
const NegativePrompt = "low quality, low resolution, blurry, distorted, watermark, text, signature, bad composition, ugly, geometric imperfections"

var (
	// rooms available on the interior tab
	Rooms = []Option{
		{ID: "living", LabelEN: "Living Room", LabelTH: "ห้องรับแขก", Prompt: "Interior design of a living room, comfortable sofa arrangement, coffee table, TV wall unit, ambient lighting, cozy and inviting atmosphere"},
		{ID: "bedroom", LabelEN: "Bedroom", LabelTH: "ห้องนอน", Prompt: "Interior design of a master bedroom, king size bed with premium bedding, bedside tables, wardrobe, soft lighting, relaxing sanctuary vibe"},
		{ID: "kitchen", LabelEN: "Kitchen", LabelTH: "ห้องครัว", Prompt: "Interior design of a kitchen, dining area integration, counter bar, refrigerator, built-in cabinets, clean countertops, functional layout"},
		{ID: "bathroom", LabelEN: "Bathroom", LabelTH: "ห้องน้ำ", Prompt: "Interior design of a bathroom, bathtub, separate shower zone, vanity mirror with lighting, sanitary ware, clean tiles, hygienic look"},
	}

	// decor styles for the interior tab
	InteriorStyles = []Option{
		{ID: "modern", LabelEN: "Modern", LabelTH: "โมเดิร์น", Prompt: "Modern style, sleek design, clean lines, neutral color palette, functional furniture, polished finishes"},
		{ID: "contemporary", LabelEN: "Contemp.", LabelTH: "ร่วมสมัย", Prompt: "Contemporary style, current trends, sophisticated textures, curved lines, mix of materials, artistic touch"},
		{ID: "minimal", LabelEN: "Minimal", LabelTH: "มินิมอล", Prompt: "Minimalist style, simplicity, clutter-free, monochromatic colors, open space, functional design, zen atmosphere"},
		{ID: "tropical", LabelEN: "Tropical", LabelTH: "ทรอปิคอล", Prompt: "Tropical style, natural materials, wood textures, indoor plants, airy atmosphere, connection to nature, resort-like feel"},
		{ID: "classic", LabelEN: "Classic", LabelTH: "คลาสสิค", Prompt: "Classic luxury style, elegant moldings, rich fabrics, chandelier, symmetrical layout, timeless aesthetic, sophisticated"},
		{ID: "resort", LabelEN: "Resort", LabelTH: "รีสอร์ท", Prompt: "Luxury resort style, vacation vibe, spacious, natural light, premium materials, relaxing and calm environment"},
	}

	// presentation styles for the plan tab
	PlanStyles = []Option{
		{ID: "iso_structure", LabelEN: "Iso (Strict Layout)", LabelTH: "ไอโซ (ยึดโครงสร้าง)", Prompt: "3D Isometric floor plan view. Convert the 2D layout into 3D. Clean architectural model style. White walls, soft shadows. High angle view showing the layout depth. Strictly preserve wall positions."},
		{ID: "blueprint", LabelEN: "Blueprint", LabelTH: "พิมพ์เขียว", Prompt: "Architectural blueprint style, white technical lines on blue background, precise measurements, clear lighting direction casting soft shadows to indicate depth"},
		{ID: "neon", LabelEN: "Neon", LabelTH: "นิออน", Prompt: "Neon cyberpunk style floor plan, glowing lines on dark background, high contrast, dramatic lighting effects with distinct cast shadows"},
		{ID: "isometric", LabelEN: "Iso Blue", LabelTH: "โครงสร้างแสงฟ้า", Prompt: "Isometric floor plan, glowing blue structural lines, dark background, bokeh effect (blurred background), depth of field, high contrast, futuristic architectural style."},
		{ID: "oblique", LabelEN: "Clay 3D", LabelTH: "3D ดินปั้น", Prompt: "3D clay render style floor plan, isometric oblique view, soft rounded edges, matte finish, cute and playful miniature diorama aesthetic. Use a monochromatic single-tone color palette (shades of white, cream, or soft beige) for the entire structure and furniture. No colorful elements. Soft global illumination, strong ambient occlusion, clean and minimal toy-like appearance."},
		{ID: "wood_model", LabelEN: "Wood Model", LabelTH: "โมเดลไม้", Prompt: "Isometric view made of light wood and matte white materials, placed on construction blueprints spread on a table. Contains miniature furniture details such as kitchen counters, wooden chairs, and gray sofas. Natural light shines through giving a soft and realistic feel. Shallow depth of field makes the background and other components slightly blurred to emphasize the focus on the room model."},
		{ID: "blueprint_grunge", LabelEN: "Blueprint Grunge", LabelTH: "พิมพ์เขียว (Grunge)", Prompt: "Architectural floor plan, top-down view, white lines on dark blue grunge paper texture background, blueprint style, thick walls casting drop shadows for depth, detailed furniture layout including bedroom kitchen and garage, sketched white outline trees surrounding, high contrast, aesthetic architectural presentation, 2D graphic design"},
	}

	// site and atmosphere presets for the exterior tab
	ExteriorScenes = []Option{
		{ID: "pool_villa", LabelEN: "Pool Villa", LabelTH: "พูลวิลล่า", Prompt: "A wide-angle architectural photograph of a luxurious modern minimalist building, viewed from the far end of its backyard under a bright clear blue sky. Two-story structure, clean white cubic forms, large glass windows. A long rectangular swimming pool with clear turquoise water runs parallel to the building. Manicured green lawn, paved walkway, wooden sun loungers. Mature palm trees and tropical plants, resort-like atmosphere. Bright midday sunlight casting sharp shadows."},
		{ID: "housing", LabelEN: "Housing Estate", LabelTH: "บ้านจัดสรร", Prompt: "A wide-angle architectural photograph of a house situated in an upscale luxury suburban neighborhood. Foreground features a spacious, clean paved asphalt driveway leading up to the structure. Surrounded by perfectly manicured landscape design, low trimmed hedges, ornamental shrubs, needle pine trees, and a lush green lawn. Clear gradient blue sky with soft natural daylight. Warm welcoming yellow light glows from windows."},
		{ID: "european", LabelEN: "Euro Garden", LabelTH: "บ้านยุโรปสวนดัด", Prompt: "A grand architectural photograph situated in an opulent formal French garden estate. A long, elegant light-beige cobblestone paved driveway leads centrally towards the structure. Foreground dominated by perfectly manicured geometric boxwood hedges, low-trimmed garden mazes, and symmetrical cone-shaped cypress trees. Lush vibrant green lawns. Dramatic sky with textured clouds. Soft diffused natural daylight. High-end real estate photography."},
		{ID: "green_walkway", LabelEN: "Green Walkway", LabelTH: "ทางเดินสวนป่า", Prompt: "A photorealistic architectural photograph nestled in a lush, mature woodland garden. A winding light-grey flagstone pathway leads from the foreground gate towards the building, flanked by manicured green lawns and rice fields. Bright clear natural sunlight, high contrast, vivid colors, bird's eye view perspective."},
		{ID: "rice_paddy", LabelEN: "Rice Field", LabelTH: "ทุ่งนามุมสูง", Prompt: "A stunning architectural photograph situated in the middle of vast, vibrant green rice paddy fields. Background features a majestic layering mountain range under a bright blue sky. A long straight paved concrete driveway leads from the foreground gate towards the building, flanked by manicured green lawns and rice fields. Bright clear natural sunlight, high contrast, vivid colors, bird's eye view perspective."},
		{ID: "lake_mountain", LabelEN: "Lake Mountain", LabelTH: "ทะเลสาบภูเขา", Prompt: "High-angle bird's eye perspective. Bright warm sunlight with sharp shadows. Vibrant blue sky with fluffy white clouds. Rugged mountainous terrain with snow-capped peaks in the distance, forested slopes. A large, reflective deep blue lake in the foreground or middle ground. Meticulously landscaped hillside with green lawns, stone pathways, and a clear blue swimming pool nearby."},
		{ID: "resort_dusk", LabelEN: "Resort Dusk", LabelTH: "รีสอร์ทยามค่ำ", Prompt: "High-resolution photograph of a resort or residential area at dusk/twilight. Blue-grey sky with wispy clouds. Meticulously designed gardens, lush greenery, large shade trees, pines, shrubs, and colorful flowers. Concrete or stone walkways winding through the garden. Water features or swimming pool reflecting the sky. Asphalt or concrete internal roads with garden lights and warm building lights creating a cozy atmosphere."},
		{ID: "hillside", LabelEN: "Hillside", LabelTH: "บ้านบนเขา", Prompt: "Vibrant mountain landscape teeming with lush green forests and expansive meadows under a bright cloud-dotted sky. A collection of structures arranged across the hillside. Modern tropical elements with thatch or flat roofs, stone, and wood. Features infinity pools, terraces, wooden walkways, and pavilions. Diverse vegetation and natural setting."},
		{ID: "lake_front", LabelEN: "Lake Front", LabelTH: "ริมทะเลสาบ", Prompt: "8K landscape photograph. Peaceful and fresh waterfront atmosphere. Foreground is a large still lake acting as a mirror reflecting the sky and landscape. Green manicured lawns along the bank, interspersed with gravel and natural stone paths. Background of lush rainforest and large mountains. Soft lighting, scattered clouds. The building sits harmoniously with nature."},
		{ID: "green_reflection", LabelEN: "Green Reflection", LabelTH: "เงาสะท้อนน้ำ", Prompt: "High-resolution landscape photograph emphasizing tranquility. Foreground is a fresh green lawn, manicured and smooth, leading to the edge of a large lake. Still water surface reflecting the surroundings perfectly. Background of towering mountains covered in dense green rainforest. Big trees framing the water. Diffused soft morning light. The building is placed harmoniously in this setting."},
		{ID: "khaoyai_1", LabelEN: "Khao Yai 1", LabelTH: "เขาใหญ่ 1", Prompt: "Modern two-story house with distinctive design. Exterior walls mix exposed concrete and black structure with wooden slats. Large floor-to-ceiling glass windows. Located amidst lush natural landscape. Background is a dense forest mountain range. Foreground features a reflecting pool, wide smooth lawn, and flower garden. Morning natural sunlight, peaceful and luxurious."},
		{ID: "khaoyai_2", LabelEN: "Khao Yai 2", LabelTH: "เขาใหญ่ 2", Prompt: "Modern resort style built of stone and wood, nestled in lush greenery. Tranquil atmosphere. Wide lawn bordered by white and purple flowering plants. A pool reflecting the building. Large trees including mango trees providing shade. Forested mountain backdrop. Afternoon sunlight bathing the scene in a relaxing ambiance."},
		{ID: "twilight_pool", LabelEN: "Twilight Pool", LabelTH: "สระน้ำพลบค่ำ", Prompt: "Cinematic, photorealistic architectural landscape at twilight (Blue Hour). Foreground features a sleek dark-tiled swimming pool with mirror-like reflections. Wooden deck, built-in lounge seating, dining area. Illuminated by cozy warm golden floor lanterns and interior lights contrasting with the deep blue sky. Lush green hillside background."},
	}

	// architecture styles for the exterior tab (labels are not localized)
	ArchStyles = []Option{
		{ID: "modern", LabelEN: "Modern", LabelTH: "Modern", Prompt: "Modern architecture, sleek design, clean lines, glass and concrete materials, geometric shapes, minimalist approach, high-end look"},
		{ID: "contemporary", LabelEN: "Contemporary", LabelTH: "Contemporary", Prompt: "Contemporary architecture, fluid lines, asymmetry, eco-friendly materials, natural light integration, innovative design, artistic expression"},
		{ID: "minimal", LabelEN: "Minimalist", LabelTH: "Minimalist", Prompt: "Minimalist architecture, extreme simplicity, monochromatic palette, open floor plans, absence of clutter, functional design, zen atmosphere"},
		{ID: "european", LabelEN: "European", LabelTH: "European", Prompt: "European classic architecture, elegant proportions, ornamental details, stone textures, steep roofs, historic charm, grand facade"},
		{ID: "scandi", LabelEN: "Scandinavian", LabelTH: "Scandinavian", Prompt: "Scandinavian architecture, nordic style, light wood timber, white walls, cozy atmosphere (hygge), functionalism, clean and bright"},
		{ID: "tropical", LabelEN: "Tropical", LabelTH: "Tropical", Prompt: "Tropical architecture, lush greenery integration, wooden screens, large overhangs, resort vibe, natural ventilation, relaxing atmosphere, exotic materials"},
	}

	RenderStyles = []Option{
		{ID: "photo", LabelEN: "Photorealistic", LabelTH: "Photorealistic", Prompt: "photorealistic, 4k, highly detailed, realistic texture"},
		{ID: "anime", LabelEN: "Anime", LabelTH: "Anime", Prompt: "anime art style, japanese animation, cel shading, vibrant colors"},
		{ID: "sketch", LabelEN: "Sketch", LabelTH: "Sketch", Prompt: "pencil sketch, graphite drawing, hand drawn, monochrome, artistic sketch"},
		{ID: "oil", LabelEN: "Oil Paint", LabelTH: "Oil Paint", Prompt: "oil painting style, textured brushstrokes, canvas texture, artistic"},
		{ID: "colorpencil", LabelEN: "Color Pencil", LabelTH: "Color Pencil", Prompt: "colored pencil drawing, soft textures, hand drawn, artistic"},
		{ID: "magic", LabelEN: "Marker", LabelTH: "Marker", Prompt: "magic marker illustration, bold lines, vibrant colors, marker texture"},
	}
)
