package handler

import (
	"Petrel/internal/api/dto"
	"Petrel/internal/pkg/response"
	"Petrel/internal/service"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteSvc     service.NoteService
	timelineSvc service.TimelineService
}

func NewNoteHandler(noteSvc service.NoteService, timelineSvc service.TimelineService) *NoteHandler {
	return &NoteHandler{
		noteSvc:     noteSvc,
		timelineSvc: timelineSvc,
	}
}

func (s *NoteHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.NoteCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	n, err := s.noteSvc.CreateNote(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, n)
}

func (s *NoteHandler) Get(c *gin.Context) {
	n, err := s.noteSvc.GetNote(c.Request.Context(), c.Param("note_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, n)
}

func (s *NoteHandler) Edit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.NoteEditDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	n, err := s.noteSvc.EditNote(c.Request.Context(), userID, c.Param("note_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, n)
}

func (s *NoteHandler) Delete(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := s.noteSvc.DeleteNote(c.Request.Context(), userID, c.Param("note_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) Renotes(c *gin.Context) {
	viewerID := c.GetString("user_id")

	var q dto.TimelineQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.timelineSvc.NoteRenotes(c.Request.Context(), viewerID, c.Param("note_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}
