package geoform

// ExtractOptions holds configuration for record extraction.
type ExtractOptions struct {
	// Form filtering (empty means all forms)
	form string

	// Record handling
	dropHeadless bool // discard placemarks whose description has no form heading

	// Export options
	stripMarkup bool // strip residual HTML markup from exported cell values
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		form:         "", // empty means all forms
		dropHeadless: false,
		stripMarkup:  false,
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		form:         o.form,
		dropHeadless: o.dropHeadless,
		stripMarkup:  o.stripMarkup,
	}
}
