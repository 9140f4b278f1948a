package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-retrieval-engine/internal/cache"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/logger"
	"github.com/gcbaptista/go-retrieval-engine/services"
)

// SearchRequest defines the structure for search queries.
// Limit is an alias for PageSize kept for clients that do not paginate.
type SearchRequest struct {
	Query                 string `json:"query" form:"q"`
	Model                 string `json:"model" form:"model"`
	Limit                 int    `json:"limit" form:"limit"`
	Page                  int    `json:"page" form:"page"`
	PageSize              int    `json:"page_size" form:"page_size"`
	UseSpellingCorrection *bool  `json:"use_spelling_correction,omitempty" form:"spelling"` // Optional: override the engine default
}

// SearchHandler handles POST /_search.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	api.search(c, req)
}

// QuerySearchHandler handles GET /search?q=&model=&page=&page_size=&spelling=.
func (api *API) QuerySearchHandler(c *gin.Context) {
	var req SearchRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	api.search(c, req)
}

func (api *API) search(c *gin.Context, req SearchRequest) {
	retrievalModel, result := ValidateModel(req.Model)
	pageSize := req.PageSize
	if pageSize == 0 && req.Limit > 0 {
		pageSize = req.Limit
	}
	page, pageSize, pagination := ValidatePagination(req.Page, pageSize, api.settings.DefaultLimit)
	result.Errors = append(result.Errors, pagination.Errors...)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if retrievalModel == "" {
		retrievalModel = services.RetrievalModel(api.settings.DefaultModel)
	}

	spelling := api.settings.SpellingCorrectionEnabled()
	if req.UseSpellingCorrection != nil {
		spelling = *req.UseSpellingCorrection
	}
	opts := services.SearchOptions{Model: retrievalModel, UseSpellingCorrection: spelling}

	key := cache.Key{
		Generation: api.engine.Generation(),
		Model:      string(retrievalModel),
		Page:       page,
		PageSize:   pageSize,
		Spelling:   spelling,
		Query:      req.Query,
	}.String()

	response, cached, err := api.cache.GetOrCompute(c.Request.Context(), key, func() (services.PagedResponse, error) {
		return api.engine.SearchPage(req.Query, page, pageSize, opts)
	})
	if err != nil {
		if !errors.Is(err, internalErrors.ErrInvalidInput) {
			api.requestLogger(c).Error("search failed", "query", req.Query, "model", retrievalModel, "error", err)
		}
		SendSearchError(c, err)
		return
	}

	if cached {
		c.Header("X-Cache", "HIT")
	} else if api.cache.Enabled() {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, response)
}

func (api *API) requestLogger(c *gin.Context) *slog.Logger {
	if requestID := logger.RequestID(c.Request.Context()); requestID != "" {
		return api.logger.With("request_id", requestID)
	}
	return api.logger
}
