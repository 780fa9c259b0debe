package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/app/requests"
	"github.com/product-matcher/app/responses"
	"github.com/product-matcher/internal/dimension"
	"github.com/product-matcher/internal/keyword"
	"github.com/product-matcher/internal/matcher"
	"github.com/product-matcher/internal/normalizer"
)

// TitleController exposes the title analysis primitives.
type TitleController struct {
	engine      *matcher.Engine
	categorizer *keyword.Categorizer
}

func NewTitleController(engine *matcher.Engine) *TitleController {
	return &TitleController{
		engine:      engine,
		categorizer: keyword.NewCategorizer(engine.Normalizer().Vocabulary()),
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, responses.ErrorResponse{
		Error:   "INVALID_REQUEST",
		Message: "Invalid request: " + err.Error(),
	})
}

// Normalize returns the normalized and noise-filtered forms of a title.
func (tc *TitleController) Normalize(c *gin.Context) {
	var req requests.TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tn := tc.engine.Normalizer()
	normalized := tn.NormalizeTitle(req.Title)
	c.JSON(http.StatusOK, responses.NormalizeResponse{
		Title:      req.Title,
		Normalized: normalized,
		Filtered:   tn.FilterNoiseWords(normalized),
	})
}

// Terms returns the search terms of a title.
func (tc *TitleController) Terms(c *gin.Context) {
	var req requests.TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.TermsResponse{
		Title:       req.Title,
		Terms:       tc.engine.Normalizer().ExtractTerms(req.Title),
		HasChinese:  normalizer.HasChineseCharacters(req.Title),
		ChineseRuns: normalizer.ExtractChineseCharacters(req.Title),
	})
}

// Dimensions parses "RG/LENGTH" or "AxB" text.
func (tc *TitleController) Dimensions(c *gin.Context) {
	var req requests.DimensionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	text := req.Text
	if expr := normalizer.FindDimensionExpr(text); expr != "" {
		text = expr
	}
	info := dimension.ParseDimensions(text)

	resp := responses.DimensionsResponse{
		Text:       req.Text,
		Dimensions: info,
		Formatted:  info.String(),
	}
	if req.FromUnit != "" && req.ToUnit != "" {
		if length, ok := info.LengthValue(); ok {
			converted := dimension.ConvertDimension(length, dimension.Unit(req.FromUnit), dimension.Unit(req.ToUnit))
			resp.ConvertedLength = &converted
			resp.Unit = req.ToUnit
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Analyze reports what the engine reads out of a title.
func (tc *TitleController) Analyze(c *gin.Context) {
	var req requests.TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tn := tc.engine.Normalizer()
	c.JSON(http.StatusOK, responses.AnalyzeResponse{
		Title:        req.Title,
		Normalized:   tn.NormalizeTitle(req.Title),
		Terms:        tn.ExtractTerms(req.Title),
		SupplierInfo: tc.engine.ExtractSupplierInfo(req.Title),
		ProductType:  tc.engine.DetectProductType(req.Title, req.Description),
		Packaging:    tc.engine.ExtractPackagingInfo(req.Title),
	})
}

// Categorize assigns a category to every keyword.
func (tc *TitleController) Categorize(c *gin.Context) {
	var req requests.CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	out := make([]models.CategorizedTerm, len(req.Keywords))
	for i, k := range req.Keywords {
		out[i] = models.CategorizedTerm{Term: k, Category: tc.categorizer.CategorizeKeyword(k, req.Context)}
	}
	c.JSON(http.StatusOK, responses.CategorizeResponse{Keywords: out})
}
