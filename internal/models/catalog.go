package models

// Preset is a toolbar entry that can be dropped onto a slide.
type Preset struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Type       ComponentType   `json:"componentType"`
	Properties PropertiesPatch `json:"properties"`
}

// CatalogSection groups presets under a toolbar heading.
type CatalogSection struct {
	Title string   `json:"title"`
	Items []Preset `json:"items"`
}

const shapeFill = "#a5b4fc"

func shapeSVG(viewBox, body string) string {
	return `<svg viewBox="` + viewBox + `" xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="none">` + body + `</svg>`
}

func shape(id, label, viewBox, body string, w, h float64) Preset {
	return Preset{
		ID:    id,
		Label: label,
		Type:  ComponentShape,
		Properties: PropertiesPatch{
			Content:         Ptr(shapeSVG(viewBox, body)),
			Width:           Ptr(w),
			Height:          Ptr(h),
			BackgroundColor: Ptr(shapeFill),
		},
	}
}

func formula(id, label, latex string, w, h float64) Preset {
	return Preset{
		ID:    id,
		Label: label,
		Type:  ComponentFormula,
		Properties: PropertiesPatch{
			Content:  Ptr(latex),
			FontSize: Ptr(24.0),
			Width:    Ptr(w),
			Height:   Ptr(h),
		},
	}
}

func text(id, label, content string, size float64, bold bool, w, h float64) Preset {
	return Preset{
		ID:    id,
		Label: label,
		Type:  ComponentText,
		Properties: PropertiesPatch{
			Content:  Ptr(content),
			FontSize: Ptr(size),
			IsBold:   Ptr(bold),
			Width:    Ptr(w),
			Height:   Ptr(h),
		},
	}
}

// TextPresets are the heading and body text entries.
func TextPresets() []Preset {
	return []Preset{
		text("text-title", "Title", "Add a title", 48, true, 400, 70),
		text("text-subtitle", "Subtitle", "Add a subtitle", 32, false, 350, 50),
		text("text-body", "Body", "Add body text...", 18, false, 300, 100),
	}
}

// ShapePresets are SVG shapes filled with the default accent color.
func ShapePresets() []Preset {
	fill := ` fill="` + shapeFill + `"`
	return []Preset{
		shape("shape-rect", "Rectangle", "0 0 100 100", `<rect width="100" height="100"`+fill+`/>`, 150, 100),
		shape("shape-circle", "Circle", "0 0 100 100", `<circle cx="50" cy="50" r="50"`+fill+`/>`, 150, 150),
		shape("shape-triangle", "Triangle", "0 0 100 100", `<path d="M50 0 L100 100 H0 Z"`+fill+`/>`, 150, 130),
		shape("shape-line", "Line", "0 0 100 4", `<rect width="100" height="4"`+fill+`/>`, 200, 50),
		shape("shape-oval", "Oval", "0 0 100 60", `<ellipse cx="50" cy="30" rx="50" ry="30"`+fill+`/>`, 200, 120),
		shape("shape-right-triangle", "Right triangle", "0 0 100 100", `<path d="M0 100 V0 H100 Z"`+fill+`/>`, 150, 150),
		shape("shape-hexagon", "Hexagon", "0 0 100 86.6", `<path d="M50 0 L100 25 V75 L50 100 L0 75 V25 Z"`+fill+`/>`, 150, 130),
		shape("shape-star", "Star", "0 0 100 100", `<path d="M50 0 L61.8 38.2 H100 L69.1 61.8 L80.9 100 L50 76.4 L19.1 100 L30.9 61.8 L0 38.2 H38.2 Z"`+fill+`/>`, 150, 150),
		shape("shape-arrow", "Arrow", "0 0 100 60", `<path d="M0 20 H70 V0 L100 30 L70 60 V40 H0 Z"`+fill+`/>`, 200, 120),
		shape("shape-trapezoid", "Trapezoid", "0 0 100 100", `<path d="M10 100 L30 0 H70 L90 100 Z"`+fill+`/>`, 180, 100),
	}
}

// FormulaPresets are LaTeX snippets.
func FormulaPresets() []Preset {
	return []Preset{
		formula("formula-fraction", "Fraction", `\frac{a}{b}`, 100, 60),
		formula("formula-sqrt", "Square root", `\sqrt{x}`, 100, 60),
		formula("formula-integral", "Integral", `\int_{a}^{b} x^2 dx`, 120, 60),
		formula("formula-sum", "Sum", `\sum_{n=1}^{\infty} \frac{1}{n^2}`, 120, 60),
		formula("formula-power", "Power", `x^n`, 80, 60),
		formula("formula-nth-root", "Nth root", `\sqrt[n]{x}`, 100, 60),
		formula("formula-limit", "Limit", `\lim_{x \to a} f(x)`, 120, 60),
		formula("formula-derivative", "Derivative", `\frac{dy}{dx}`, 100, 60),
		formula("formula-log", "Logarithm", `\log_{b}(x)`, 100, 60),
		formula("formula-pythagoras", "Pythagoras", `a^2 + b^2 = c^2`, 150, 50),
		formula("formula-matrix", "Matrix", `\begin{pmatrix} a & b \\ c & d \end{pmatrix}`, 100, 80),
		formula("formula-binomial", "Binomial", `\binom{n}{k}`, 80, 80),
		formula("formula-vector", "Vector", `\vec{v}`, 80, 50),
		formula("formula-quadratic", "Quadratic roots", `x = \frac{-b \pm \sqrt{b^2-4ac}}{2a}`, 220, 80),
	}
}

// ImagePreset places an uploaded image (a data URI) at a fixed spot.
func ImagePreset(dataURI string) Preset {
	return Preset{
		ID:    "image-upload",
		Label: "Image",
		Type:  ComponentImage,
		Properties: PropertiesPatch{
			Content: Ptr(dataURI),
			X:       Ptr(100.0),
			Y:       Ptr(100.0),
			Width:   Ptr(300.0),
			Height:  Ptr(200.0),
		},
	}
}

// Catalog returns the toolbar sections in display order.
func Catalog() []CatalogSection {
	return []CatalogSection{
		{Title: "Text", Items: TextPresets()},
		{Title: "Shapes & images", Items: ShapePresets()},
		{Title: "Formulas", Items: FormulaPresets()},
	}
}

// FindPreset looks a preset up by id across all sections.
func FindPreset(id string) (Preset, bool) {
	for _, section := range Catalog() {
		for _, p := range section.Items {
			if p.ID == id {
				return p, true
			}
		}
	}
	return Preset{}, false
}
