package api

import "Petrel/internal/api/handler"

// HandlersGroup bundles every initialized handler instance.
type HandlersGroup struct {
	NoteHandler     *handler.NoteHandler
	TimelineHandler *handler.TimelineHandler
	StreamHandler   *handler.StreamHandler
}
