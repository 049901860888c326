package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/currents-api/internal/domain"
	"go.ngs.io/currents-api/internal/usecase"
)

// Handler handles HTTP requests for current extractions.
type Handler struct {
	extractor *usecase.Extractor
}

// NewHandler creates a new HTTP handler.
func NewHandler(extractor *usecase.Extractor) *Handler {
	return &Handler{
		extractor: extractor,
	}
}

// SamplePoint is one element of the extracted series.
type SamplePoint struct {
	Time string  `json:"time"`
	U    float64 `json:"u_ms"`
	V    float64 `json:"v_ms"`
}

// ExtractionResponse is the JSON shape of a successful extraction.
type ExtractionResponse struct {
	Mode     string        `json:"mode"`
	CellI    int           `json:"cell_i"`
	CellJ    int           `json:"cell_j"`
	CellLat  float64       `json:"cell_lat"`
	CellLon  float64       `json:"cell_lon"`
	AngleRad float64       `json:"angle_rad"`
	Series   []SamplePoint `json:"series"`
}

// GetCurrents handles GET /v1/currents/extract.
func (h *Handler) GetCurrents(c *gin.Context) {
	// Parse query parameters.
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	depthStr := c.Query("depth")
	startStr := c.Query("start")
	endStr := c.Query("end")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon parameters are required"})
		return
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid latitude: %v", err)})
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid longitude: %v", err)})
		return
	}

	// Depth defaults to the surface.
	depth := 0.0
	if depthStr != "" {
		depth, err = strconv.ParseFloat(depthStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid depth: %v", err)})
			return
		}
	}

	if startStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start parameter is required"})
		return
	}
	if endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end parameter is required"})
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid start time (expected RFC3339): %v", err)})
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid end time (expected RFC3339): %v", err)})
		return
	}

	req := usecase.ExtractionRequest{
		Start:  start.UTC(),
		End:    end.UTC(),
		Lat:    lat,
		Lon:    lon,
		DepthM: depth,
	}

	result, err := h.extractor.Execute(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	series := make([]SamplePoint, len(result.Series))
	for i, s := range result.Series {
		series[i] = SamplePoint{
			Time: s.Time.UTC().Format(time.RFC3339),
			U:    s.U,
			V:    s.V,
		}
	}

	c.JSON(http.StatusOK, ExtractionResponse{
		Mode:     result.Mode.String(),
		CellI:    result.Cell.I,
		CellJ:    result.Cell.J,
		CellLat:  result.CellLat,
		CellLon:  result.CellLon,
		AngleRad: result.AngleRad,
		Series:   series,
	})
}

// CoverageResponse describes the valid request envelope of the dataset.
type CoverageResponse struct {
	TimeStart   string    `json:"time_start"`
	TimeEnd     string    `json:"time_end"`
	DepthLevels []float64 `json:"depth_levels_m"`
	GridRows    int       `json:"grid_rows"`
	GridCols    int       `json:"grid_cols"`
}

// GetCoverage handles GET /v1/currents/coverage.
func (h *Handler) GetCoverage(c *gin.Context) {
	meta, err := h.extractor.Metadata(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	rows, cols := meta.Shape()
	c.JSON(http.StatusOK, CoverageResponse{
		TimeStart:   meta.TimeAxis[0].UTC().Format(time.RFC3339),
		TimeEnd:     meta.TimeAxis[len(meta.TimeAxis)-1].UTC().Format(time.RFC3339),
		DepthLevels: meta.DepthLevels,
		GridRows:    rows,
		GridCols:    cols,
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// statusForError maps pipeline failures to HTTP statuses: invalid-request
// kinds are 4xx, data-source failures are 502.
func statusForError(err error) int {
	var timeErr *domain.TimeRangeError
	var depthErr *domain.DepthRangeError
	var spatialErr *domain.SpatialDomainError
	var sourceErr *domain.DataSourceError

	switch {
	case errors.As(err, &timeErr), errors.As(err, &depthErr):
		return http.StatusBadRequest
	case errors.As(err, &spatialErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &sourceErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
