package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	snappyContentType = "application/x-snappy"
	maxSnapshotBytes  = 32 << 20
)

// ExportSnapshot downloads the workspace as JSON, or snappy-compressed JSON
// with ?format=snappy.
func (s *Server) ExportSnapshot(c *gin.Context) {
	ctx := c.Request.Context()
	date := s.snapshotDate()

	if strings.EqualFold(c.Query("format"), "snappy") {
		data, err := s.snapshots.ExportCompressed(ctx)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "quotation-backup-"+date+".json.sz"))
		c.Data(http.StatusOK, snappyContentType, data)
		return
	}

	data, err := s.snapshots.ExportJSON(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "quotation-backup-"+date+".json"))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportSnapshot replaces the sections present in the uploaded snapshot.
func (s *Server) ImportSnapshot(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	importFn := s.snapshots.Import
	if c.ContentType() == snappyContentType {
		importFn = s.snapshots.ImportCompressed
	}
	result, err := importFn(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result, "message": "Data imported successfully"})
}

// ClearSnapshot removes every quotation and template of the workspace.
func (s *Server) ClearSnapshot(c *gin.Context) {
	if err := s.snapshots.Clear(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) snapshotDate() string {
	return s.clock.Now().Format("2006-01-02")
}
