package matcher

import (
	"strings"

	"github.com/product-matcher/internal/normalizer"
)

// ProductType is the coarse kind of product a title describes.
type ProductType string

const (
	ProductTypeAccessory ProductType = "accessory"
	ProductTypeCigarette ProductType = "cigarette"
	ProductTypeCigar     ProductType = "cigar"
)

// PackagingInfo describes how a listing is packed. Count is 0 when no piece
// count was found.
type PackagingInfo struct {
	HasPackaging bool   `json:"has_packaging"`
	Type         string `json:"type,omitempty"`
	Count        int    `json:"count,omitempty"`
}

// DetectProductType scans title and description for the product-type
// vocabularies in order. Anything unmatched is a cigar.
func (e *Engine) DetectProductType(title, description string) ProductType {
	text := strings.ToLower(title + " " + description)
	for _, set := range e.vocab.ProductTypes {
		for _, w := range set.Terms {
			if strings.Contains(text, w) {
				return ProductType(set.Label)
			}
		}
	}
	return ProductTypeCigar
}

// ExtractPackagingInfo finds the first packaging type mentioned (box, then
// tube, then pack) and, independently, a piece count.
func (e *Engine) ExtractPackagingInfo(title string) PackagingInfo {
	var info PackagingInfo
	lower := strings.ToLower(title)

outer:
	for _, set := range e.vocab.PackagingTypes {
		for _, w := range set.Terms {
			if strings.Contains(lower, w) {
				info.HasPackaging = true
				info.Type = set.Label
				break outer
			}
		}
	}

	info.Count = normalizer.ExtractCount(title)
	return info
}
