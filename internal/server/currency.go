package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dovepeak/quotemaster/internal/apperror"
	"github.com/dovepeak/quotemaster/internal/currency"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": currency.All()})
}

// FormatAmount formats ?amount= in the currency named by the path. Unknown
// codes fall back to the default currency, as documents do.
func (s *Server) FormatAmount(c *gin.Context) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(c.Query("amount")), 64)
	if err != nil {
		AbortWithError(c, apperror.Validation("invalid amount", apperror.Field("amount", "number", "amount must be a number")))
		return
	}
	code := c.Param("code")
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"currency":  currency.Resolve(code).Code,
		"symbol":    currency.SymbolOf(code),
		"formatted": currency.Format(amount, code),
	}})
}
