package doodle

import "sync"

// Layer is the doodle container for one page. Each Place call replaces
// whatever the previous call produced.
type Layer struct {
	mu        sync.Mutex
	catalog   *Catalog
	cfg       Config
	instances []Instance
}

// NewLayer returns an empty layer that draws from catalog.
func NewLayer(catalog *Catalog, cfg Config) *Layer {
	return &Layer{catalog: catalog, cfg: cfg}
}

// Place clears the layer and repopulates it for the viewport and
// category. Calling Place on a nil layer does nothing.
func (l *Layer) Place(rng Rand, vp Viewport, category Category) {
	if l == nil {
		return
	}
	placed := Place(rng, l.catalog, l.cfg, vp, category)
	l.mu.Lock()
	l.instances = placed
	l.mu.Unlock()
}

// Instances returns a copy of the current contents.
func (l *Layer) Instances() []Instance {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Instance(nil), l.instances...)
}

// Len returns the number of placed instances.
func (l *Layer) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.instances)
}
