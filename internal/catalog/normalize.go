package catalog

// NormalizeProductImages reconciles the two historical image representations:
// a single image_url field and an images list. If a non-empty list is present
// its first element becomes the canonical image_url; otherwise a lone
// image_url is wrapped into a one-element list. Applying it twice yields the
// same record as applying it once.
func NormalizeProductImages(p *Product) {
	if len(p.Images) > MaxProductImages {
		p.Images = p.Images[:MaxProductImages]
	}
	if len(p.Images) > 0 {
		p.ImageURL = p.Images[0]
		return
	}
	if p.ImageURL != "" {
		p.Images = []string{p.ImageURL}
	}
}
