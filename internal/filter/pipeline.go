package filter

import "fmt"

// Spec names one filter of a pipeline.
type Spec struct {
	ID    uint16
	Level int
}

// Pipeline is an ordered list of filters applied to every chunk.
type Pipeline struct {
	filters []Filter
}

// NewPipeline builds a pipeline from filter specs. A nil or empty list yields
// a pass-through pipeline.
func NewPipeline(specs []Spec) (*Pipeline, error) {
	p := &Pipeline{filters: make([]Filter, 0, len(specs))}
	if len(specs) > 32 {
		return nil, fmt.Errorf("pipeline has %d filters, at most 32 fit the filter mask", len(specs))
	}
	for _, s := range specs {
		f, err := New(s.ID, s.Level)
		if err != nil {
			return nil, fmt.Errorf("creating filter %d: %w", s.ID, err)
		}
		p.filters = append(p.filters, f)
	}
	return p, nil
}

// Encode applies every filter in order and returns the stored bytes together
// with the mask of skipped filters. An optional filter is skipped when its
// output is not smaller than its input.
func (p *Pipeline) Encode(input []byte) ([]byte, uint32, error) {
	var mask uint32
	data := input

	for i, f := range p.filters {
		out, err := f.Encode(data)
		if err != nil {
			if f.Optional() {
				mask |= 1 << uint(i)
				continue
			}
			return nil, 0, fmt.Errorf("filter %s encode: %w", Name(f.ID()), err)
		}
		if f.Optional() && len(out) >= len(data) {
			mask |= 1 << uint(i)
			continue
		}
		data = out
	}

	return data, mask, nil
}

// Decode reverses Encode. Filters are applied last to first, and filters
// whose bit is set in filterMask are skipped.
func (p *Pipeline) Decode(input []byte, filterMask uint32) ([]byte, error) {
	data := input

	for i := len(p.filters) - 1; i >= 0; i-- {
		if filterMask&(1<<uint(i)) != 0 {
			continue
		}

		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s decode: %w", Name(p.filters[i].ID()), err)
		}
	}

	return data, nil
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}
