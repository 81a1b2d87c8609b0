package handler

import (
	"Petrel/internal/api/dto"
	"Petrel/internal/pkg/response"
	"Petrel/internal/service"

	"github.com/gin-gonic/gin"
)

type TimelineHandler struct {
	timelineSvc service.TimelineService
}

func NewTimelineHandler(timelineSvc service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineSvc: timelineSvc}
}

func (s *TimelineHandler) Home(c *gin.Context) {
	viewerID := c.GetString("user_id")

	var q dto.TimelineQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.timelineSvc.HomeTimeline(c.Request.Context(), viewerID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *TimelineHandler) Local(c *gin.Context) {
	viewerID := c.GetString("user_id")

	var q dto.TimelineQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.timelineSvc.LocalTimeline(c.Request.Context(), viewerID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *TimelineHandler) Global(c *gin.Context) {
	viewerID := c.GetString("user_id")

	var q dto.TimelineQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.timelineSvc.GlobalTimeline(c.Request.Context(), viewerID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *TimelineHandler) User(c *gin.Context) {
	viewerID := c.GetString("user_id")

	var q dto.TimelineQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.timelineSvc.UserTimeline(c.Request.Context(), viewerID, c.Param("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *TimelineHandler) Search(c *gin.Context) {
	viewerID := c.GetString("user_id")

	var q dto.SearchQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.timelineSvc.SearchNotes(c.Request.Context(), viewerID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}
