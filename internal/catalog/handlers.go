package catalog

import (
	"github.com/gin-gonic/gin"

	"github.com/fxbridge/fxbridge-api/internal/types"
	"github.com/fxbridge/fxbridge-api/pkg/response"
)

// GinHandlers contains HTTP handlers for the operator catalog endpoints
type GinHandlers struct {
	catalog *Catalog
}

// NewGinHandlers creates the HTTP handlers for catalog inspection
func NewGinHandlers(catalog *Catalog) *GinHandlers {
	return &GinHandlers{catalog: catalog}
}

// PrecisionHandler handles GET requests for one instrument's precision.
// URL parameters: trading_type, instrument
func (h *GinHandlers) PrecisionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tradingType := types.TradingType(c.Param("trading_type"))
		if !tradingType.Valid() {
			response.BadRequest(c, "trading_type must be practice or live")
			return
		}

		instrument := c.Param("instrument")
		if instrument == "" {
			response.BadRequest(c, "instrument is required")
			return
		}

		precision, err := h.catalog.PrecisionFor(c.Request.Context(), instrument, tradingType)
		if err != nil {
			if types.IsNotFound(err) {
				response.NotFound(c, "instrument not in precision table")
				return
			}
			response.InternalError(c, err.Error())
			return
		}

		response.Success(c, gin.H{
			"instrument":   instrument,
			"trading_type": tradingType,
			"precision":    precision,
		})
	}
}
