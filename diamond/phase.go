package diamond

// Phase is one stage of the double diamond carousel.
type Phase struct {
	ID           string
	Title        string
	Illustration string
	Description  string
	Body         string // markdown
}

var catalog = []Phase{
	{ID: "discover", Title: "Discover", Illustration: "assets/img/phase_discover.svg",
		Description: "Understanding the problem space through research."},
	{ID: "define", Title: "Define", Illustration: "assets/img/phase_define.svg",
		Description: "Framing the insights into a clear challenge."},
	{ID: "develop", Title: "Develop", Illustration: "assets/img/phase_develop.svg",
		Description: "Exploring and prototyping possible answers."},
	{ID: "deliver", Title: "Deliver", Illustration: "assets/img/phase_deliver.svg",
		Description: "Testing, refining and shipping the solution."},
	{ID: "reflect", Title: "Reflect", Illustration: "assets/img/phase_reflect.svg",
		Description: "Looking back on outcomes and lessons."},
}

// Catalog returns the fixed, ordered phase catalog.
func Catalog() []Phase {
	return append([]Phase(nil), catalog...)
}

// PhaseCount is the number of phases in the catalog.
func PhaseCount() int {
	return len(catalog)
}
