package server

import (
	"net/http"
	"strings"

	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListQuotations(c *gin.Context) {
	var query quotationdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.quotations.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// NewDraft returns a numbered draft without storing it; the client saves it
// once the client details are filled in.
func (s *Server) NewDraft(c *gin.Context) {
	draft, err := s.quotations.NewDraft(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (s *Server) SaveQuotation(c *gin.Context) {
	var req quotationdomain.Quotation
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		req.ID = id
	}

	saved, err := s.quotations.Save(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}

func (s *Server) GetQuotation(c *gin.Context) {
	q, err := s.quotations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": q})
}

func (s *Server) DeleteQuotation(c *gin.Context) {
	if err := s.quotations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setStatusRequest struct {
	Status quotationdomain.Status `json:"status"`
}

func (s *Server) SetQuotationStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	q, err := s.quotations.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": q})
}

func (s *Server) AddQuotationItem(c *gin.Context) {
	q, err := s.quotations.AddItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": q})
}

func (s *Server) UpdateQuotationItem(c *gin.Context) {
	var patch quotationdomain.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	q, err := s.quotations.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": q})
}

func (s *Server) RemoveQuotationItem(c *gin.Context) {
	q, err := s.quotations.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": q})
}

type changeTemplateRequest struct {
	TemplateID string `json:"templateId"`
}

func (s *Server) ChangeQuotationTemplate(c *gin.Context) {
	var req changeTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	q, err := s.quotations.ChangeTemplate(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.TemplateID))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": q})
}

type changeProfileRequest struct {
	BusinessProfileID string `json:"businessProfileId"`
}

func (s *Server) ChangeQuotationProfile(c *gin.Context) {
	var req changeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	q, err := s.quotations.ChangeBusinessProfile(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.BusinessProfileID))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": q})
}

func (s *Server) DuplicateQuotation(c *gin.Context) {
	q, err := s.quotations.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": q})
}

func (s *Server) QuotationDocument(c *gin.Context) {
	s.writeDocument(c, false)
}

func (s *Server) PrintQuotation(c *gin.Context) {
	s.writeDocument(c, true)
}

func (s *Server) writeDocument(c *gin.Context, print bool) {
	ctx := c.Request.Context()
	doc, err := s.quotations.RenderDocument(ctx, c.Param("id"), print)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	page, err := s.printer.Open(ctx, *doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", page.Disposition)
	c.Data(http.StatusOK, page.ContentType, page.Body)
}

type emailRequest struct {
	Message string `json:"message"`
}

func (s *Server) EmailQuotation(c *gin.Context) {
	var req emailRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	handoff, err := s.quotations.ComposeEmail(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": handoff})
}
