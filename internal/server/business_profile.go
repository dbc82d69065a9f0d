package server

import (
	"net/http"

	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListBusinessProfiles(c *gin.Context) {
	items, err := s.profiles.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) DefaultBusinessProfile(c *gin.Context) {
	p, err := s.profiles.Default(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (s *Server) GetBusinessProfile(c *gin.Context) {
	p, err := s.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (s *Server) CreateBusinessProfile(c *gin.Context) {
	var req profiledomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	p, err := s.profiles.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (s *Server) UpdateBusinessProfile(c *gin.Context) {
	var req profiledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	p, err := s.profiles.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (s *Server) SetDefaultBusinessProfile(c *gin.Context) {
	p, err := s.profiles.SetDefault(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (s *Server) DeleteBusinessProfile(c *gin.Context) {
	if err := s.profiles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
