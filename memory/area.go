package memory

import "sort"

// Area is a directory of regions indexed by label. Each label holds at most
// one region and labels are independent of each other.
type Area struct {
	regions map[string]*Region
}

// NewArea creates an empty area.
func NewArea() *Area {
	return &Area{regions: make(map[string]*Region)}
}

// Get returns the region stored under label.
func (a *Area) Get(label string) (*Region, bool) {
	r, ok := a.regions[label]
	return r, ok
}

// Take removes the region stored under label and returns it.
func (a *Area) Take(label string) (*Region, bool) {
	r, ok := a.regions[label]
	if ok {
		delete(a.regions, label)
	}
	return r, ok
}

// Set stores region under label and returns the region it displaced, if any.
func (a *Area) Set(label string, region *Region) (*Region, bool) {
	if a.regions == nil {
		a.regions = make(map[string]*Region)
	}
	prev, ok := a.regions[label]
	a.regions[label] = region
	if ok && prev != nil {
		log.Debugf("area label %q displaced a region of %d bytes", label, prev.Len())
	}
	return prev, ok
}

// Len returns the number of labels.
func (a *Area) Len() int { return len(a.regions) }

// Labels returns the labels in sorted order.
func (a *Area) Labels() []string {
	labels := make([]string, 0, len(a.regions))
	for l := range a.regions {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
