package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vishalpokuri/inkle-task/app/cfg"
	"github.com/vishalpokuri/inkle-task/app/customer"
	"github.com/vishalpokuri/inkle-task/app/store"
	"github.com/vishalpokuri/inkle-task/app/tasks"
)

func NewHandler(recordStore store.RecordStore, viewCache *customer.ViewCache,
	editor *customer.Editor, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		store:     recordStore,
		viewCache: viewCache,
		editor:    editor,
		scheduler: scheduler,
	}
}

// GetCustomers serves the visible page of the customer table. Search,
// column filters and sort apply to the full normalized collection before
// pagination.
func (h *Handler) GetCustomers(c *gin.Context) {
	viewName := c.DefaultQuery("view", "customers")
	view, err := h.viewCache.GetView(viewName)
	if err != nil {
		slog.Error("View not found", "view", viewName, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
		return
	}

	state := customer.NewState(view)
	state.Search = c.Query("q")
	state.Countries = c.QueryArray("country")
	state.Genders = c.QueryArray("gender")

	if sortColumn := c.Query("sort"); sortColumn != "" {
		if !view.IsSortable(sortColumn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Column is not sortable: " + sortColumn})
			return
		}
		direction := customer.SortAsc
		switch c.DefaultQuery("order", "asc") {
		case "asc":
		case "desc":
			direction = customer.SortDesc
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort order, expected asc or desc"})
			return
		}
		state.Sort = &customer.Sort{Column: sortColumn, Direction: direction}
	}

	if pageParam := c.Query("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
			return
		}
		state.Page = page
	}

	if sizeParam := c.Query("page_size"); sizeParam != "" {
		size, err := strconv.Atoi(sizeParam)
		if err != nil || !view.IsPageSizeAllowed(size) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page_size parameter"})
			return
		}
		state.PageSize = size
	}

	engine := customer.NewEngine(view)
	page := engine.Run(h.store.Canonical(), state)

	c.JSON(http.StatusOK, CustomerPageResponse{
		Records:       page.Records,
		TotalRecords:  page.TotalRecords,
		TotalPages:    page.TotalPages,
		Page:          page.Page,
		PageSize:      page.PageSize,
		CanGoNext:     page.CanGoNext,
		CanGoPrevious: page.CanGoPrevious,
	})
}

// GetFilterOptions serves the distinct country and gender values feeding
// the filter dropdowns.
func (h *Handler) GetFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, FilterOptionsResponse{
		Countries: h.store.DistinctCountries(),
		Genders:   h.store.DistinctGenders(),
	})
}

func (h *Handler) GetCountries(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Countries())
}

// UpdateCustomer runs the edit pipeline. On success the merged record is
// returned and a full collection refresh is scheduled; the stored canonical
// collection is never patched in place.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing record id parameter"})
		return
	}

	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	record, ok := h.store.GetRecord(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	merged, err := h.editor.Run(c.Request.Context(), record, customer.Patch{
		Name:    req.Name,
		Country: req.Country,
	})
	if err != nil {
		switch {
		case errors.Is(err, customer.ErrNameRequired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Name must not be empty"})
		case errors.Is(err, customer.ErrEditInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "Another edit is already in progress"})
		default:
			slog.Error("Record update failed", "record", id, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update record"})
		}
		return
	}

	c.JSON(http.StatusOK, merged)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"loaded":    h.store.Loaded(),
	}

	stats := h.store.Stats()
	health["records"] = stats.RecordCount
	health["countries"] = stats.CountryCount
	health["loaded_views"] = h.viewCache.GetViewCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := h.store.Stats()

	response := map[string]interface{}{
		"version":          cfg.Get().Version,
		"records":          stats.RecordCount,
		"countries":        stats.CountryCount,
		"canonical":        stats.CanonicalCount,
		"distinct_country": len(h.store.DistinctCountries()),
		"distinct_gender":  len(h.store.DistinctGenders()),
	}

	if stats.RecordsLoadedAt != nil {
		response["records_loaded_at"] = stats.RecordsLoadedAt.Format(time.RFC3339)
	}
	if stats.CountriesLoadedAt != nil {
		response["countries_loaded_at"] = stats.CountriesLoadedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

// APIRefresh enqueues an on-demand record sync.
func (h *Handler) APIRefresh(c *gin.Context) {
	if err := h.scheduler.RequestRefresh(); err != nil {
		slog.Error("Failed to enqueue refresh", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue refresh"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}
