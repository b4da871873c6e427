package controller

import (
	"errors"
	"fmt"
	"net/http"

	"datachat-resultview/internal/aggregate"
	"datachat-resultview/internal/chart"
	"datachat-resultview/internal/dto"
	"datachat-resultview/internal/model"
	"datachat-resultview/internal/service"
	"datachat-resultview/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ResultController struct {
	resultService service.ResultService
}

func NewResultController(resultService service.ResultService) *ResultController {
	return &ResultController{
		resultService: resultService,
	}
}

func RegisterResultRoutes(router *gin.Engine, controller *ResultController) {
	v1 := router.Group("/api/v1/results")
	{
		v1.POST("", controller.Register)
		v1.GET("/:id", controller.Get)
		v1.PUT("/:id/data", controller.Reload)
		v1.DELETE("/:id", controller.Discard)
		v1.PUT("/:id/view", controller.SetView)
		v1.PUT("/:id/aggregation", controller.SetAggregation)
		v1.POST("/:id/table/sort", controller.ToggleSort)
		v1.PUT("/:id/table/search", controller.Search)
		v1.GET("/:id/table/window", controller.Window)
		v1.GET("/:id/export/table", controller.ExportTable)
		v1.GET("/:id/export/pivot", controller.ExportPivotTable)
		v1.GET("/:id/export/chart", controller.ExportChart)
	}
}

func (c *ResultController) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrResultNotFound):
		ctx.JSON(http.StatusNotFound, model.NewResponse("Result not found", nil))
	case errors.Is(err, service.ErrInvalidRequest):
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
	case errors.Is(err, chart.ErrNothingToPlot), errors.Is(err, aggregate.ErrNoValueColumn):
		ctx.JSON(http.StatusUnprocessableEntity, model.NewResponse(chart.PlaceholderNoValues, nil))
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Internal error handling result request")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Internal server error", nil))
	}
}

func download(ctx *gin.Context, d *dto.Download) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.FileName))
	ctx.Data(http.StatusOK, d.ContentType, d.Data)
}

// Register godoc
// @Summary      Register a chatbot answer
// @Description  Infers a table schema from an arbitrary answer payload and creates a result view for it. Malformed payloads are accepted and shown as plain text.
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        request body object true "Chatbot answer, usually {\"answer\": [...]}"
// @Success      201 {object} dto.ResultResponse "Result view created"
// @Failure      400 {object} model.Response "Payload too large"
// @Router       /api/v1/results [post]
func (c *ResultController) Register(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	resp, err := c.resultService.Register(ctx.Request.Context(), "", payload)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get a result view
// @Tags         results
// @Produce      json
// @Param        id path string true "Result ID"
// @Success      200 {object} dto.ResultResponse
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id} [get]
func (c *ResultController) Get(ctx *gin.Context) {
	resp, err := c.resultService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Reload godoc
// @Summary      Replace the dataset of a result view
// @Description  Loads a new answer into an existing view. Table state and chart toggles are reset and the default view is recomputed.
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        id path string true "Result ID"
// @Param        request body object true "Chatbot answer"
// @Success      200 {object} dto.ResultResponse
// @Failure      400 {object} model.Response "Payload too large"
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id}/data [put]
func (c *ResultController) Reload(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	resp, err := c.resultService.Reload(ctx.Request.Context(), ctx.Param("id"), payload)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Discard godoc
// @Summary      Discard a result view
// @Tags         results
// @Param        id path string true "Result ID"
// @Success      204
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id} [delete]
func (c *ResultController) Discard(ctx *gin.Context) {
	if err := c.resultService.Discard(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SetView godoc
// @Summary      Switch between table and chart
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        id path string true "Result ID"
// @Param        request body dto.ViewRequest true "Target view"
// @Success      200 {object} dto.ResultResponse
// @Failure      400 {object} model.Response "Unknown view"
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id}/view [put]
func (c *ResultController) SetView(ctx *gin.Context) {
	var req dto.ViewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	resp, err := c.resultService.SetView(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SetAggregation godoc
// @Summary      Change grouping, reducer or chart kind
// @Description  Every change recomputes the pivot and the chart from the raw rows.
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        id path string true "Result ID"
// @Param        request body dto.AggregationRequest true "Aggregation settings"
// @Success      200 {object} dto.ResultResponse
// @Failure      400 {object} model.Response "Unknown reducer or chart kind"
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id}/aggregation [put]
func (c *ResultController) SetAggregation(ctx *gin.Context) {
	var req dto.AggregationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	resp, err := c.resultService.SetAggregation(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ToggleSort godoc
// @Summary      Sort the table by a column
// @Description  Sorting the current column again flips the direction; a new column starts ascending.
// @Tags         table
// @Accept       json
// @Produce      json
// @Param        id path string true "Result ID"
// @Param        request body dto.SortRequest true "Column to sort by"
// @Success      200 {object} dto.ResultResponse
// @Failure      400 {object} model.Response "Unknown column"
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id}/table/sort [post]
func (c *ResultController) ToggleSort(ctx *gin.Context) {
	var req dto.SortRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	resp, err := c.resultService.ToggleSort(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary      Set the table search term
// @Description  The term is stored immediately; rows are filtered once typing pauses for the debounce delay.
// @Tags         table
// @Accept       json
// @Produce      json
// @Param        id path string true "Result ID"
// @Param        request body dto.SearchRequest true "Search term"
// @Success      200 {object} dto.ResultResponse
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id}/table/search [put]
func (c *ResultController) Search(ctx *gin.Context) {
	var req dto.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	resp, err := c.resultService.Search(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Window godoc
// @Summary      Rows inside the visible scroll window
// @Tags         table
// @Produce      json
// @Param        id             path  string  true  "Result ID"
// @Param        scrollTop      query number  false "Scroll offset in pixels"
// @Param        viewportHeight query number  true  "Viewport height in pixels"
// @Success      200 {object} dto.WindowResponse
// @Failure      400 {object} model.Response "Invalid scroll position"
// @Failure      404 {object} model.Response "Result not found"
// @Router       /api/v1/results/{id}/table/window [get]
func (c *ResultController) Window(ctx *gin.Context) {
	var req dto.WindowRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid query parameters: "+err.Error(), nil))
		return
	}
	resp, err := c.resultService.Window(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ExportTable godoc
// @Summary      Download the filtered and sorted table
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Result ID"
// @Success      200 {file} file "table_data.xlsx"
// @Failure      404 {object} model.Response "Result not found"
// @Failure      500 {object} model.Response "Export failed"
// @Router       /api/v1/results/{id}/export/table [get]
func (c *ResultController) ExportTable(ctx *gin.Context) {
	d, err := c.resultService.ExportTable(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	download(ctx, d)
}

// ExportPivotTable godoc
// @Summary      Download the aggregated table
// @Description  One row per index value and one column per series, as currently grouped and reduced.
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Result ID"
// @Success      200 {file} file "pivot_data.xlsx"
// @Failure      404 {object} model.Response "Result not found"
// @Failure      422 {object} model.Response "Nothing to aggregate"
// @Failure      500 {object} model.Response "Export failed"
// @Router       /api/v1/results/{id}/export/pivot [get]
func (c *ResultController) ExportPivotTable(ctx *gin.Context) {
	d, err := c.resultService.ExportPivotTable(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	download(ctx, d)
}

// ExportChart godoc
// @Summary      Download the chart as PNG
// @Tags         export
// @Produce      png
// @Param        id         path  string true  "Result ID"
// @Param        resolution query string false "Resolution multiplier" Enums(standard, high)
// @Success      200 {file} file "{kind}_graph_{resolution}.png"
// @Failure      400 {object} model.Response "Unknown resolution"
// @Failure      404 {object} model.Response "Result not found"
// @Failure      422 {object} model.Response "Nothing to plot"
// @Failure      500 {object} model.Response "Export failed"
// @Router       /api/v1/results/{id}/export/chart [get]
func (c *ResultController) ExportChart(ctx *gin.Context) {
	d, err := c.resultService.ExportChart(ctx.Request.Context(), ctx.Param("id"), ctx.Query("resolution"))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	download(ctx, d)
}
