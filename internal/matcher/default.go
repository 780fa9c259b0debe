package matcher

import "sync"

var defaultEngine = sync.OnceValue(func() *Engine {
	return NewEngine(nil, DefaultWeights())
})

// Default returns a shared engine over the embedded vocabulary and default weights.
func Default() *Engine {
	return defaultEngine()
}

func GetBestMatch(title string, candidates []CatalogProduct) MatchResult {
	return Default().GetBestMatch(title, candidates)
}

func ExtractSupplierInfo(title string, extraBrands ...string) SupplierInfo {
	return Default().ExtractSupplierInfo(title, extraBrands...)
}

func DetectProductType(title, description string) ProductType {
	return Default().DetectProductType(title, description)
}

func ExtractPackagingInfo(title string) PackagingInfo {
	return Default().ExtractPackagingInfo(title)
}
