package federation

import (
	"Petrel/internal/model"
	"time"
)

const activityContext = "https://www.w3.org/ns/activitystreams"

// Activity is a rendered ActivityPub document. Shapes are loose on purpose;
// remote servers only care about the JSON.
type Activity map[string]interface{}

func noteURI(serverURL string, n *model.Note) string {
	if n.URI != "" {
		return n.URI
	}
	return serverURL + "/notes/" + n.ID
}

func userURI(serverURL, userID string) string {
	return serverURL + "/users/" + userID
}

func renderObject(serverURL string, n *model.Note) map[string]interface{} {
	obj := map[string]interface{}{
		"id":           noteURI(serverURL, n),
		"type":         "Note",
		"attributedTo": userURI(serverURL, n.UserID),
		"content":      n.Text,
		"published":    n.CreatedAt.Format(time.RFC3339),
	}
	if n.CW != "" {
		obj["summary"] = n.CW
	}
	if n.ReplyID != "" {
		obj["inReplyTo"] = serverURL + "/notes/" + n.ReplyID
	}
	if n.UpdatedAt != nil {
		obj["updated"] = n.UpdatedAt.Format(time.RFC3339)
	}
	return obj
}

func RenderCreate(serverURL string, n *model.Note) Activity {
	return Activity{
		"@context": activityContext,
		"id":       noteURI(serverURL, n) + "/activity",
		"type":     "Create",
		"actor":    userURI(serverURL, n.UserID),
		"object":   renderObject(serverURL, n),
	}
}

func RenderUpdate(serverURL string, n *model.Note) Activity {
	return Activity{
		"@context": activityContext,
		"id":       noteURI(serverURL, n) + "/activity#update",
		"type":     "Update",
		"actor":    userURI(serverURL, n.UserID),
		"object":   renderObject(serverURL, n),
	}
}

// RenderDelete tombstones the note.
func RenderDelete(serverURL string, n *model.Note) Activity {
	return Activity{
		"@context": activityContext,
		"id":       noteURI(serverURL, n) + "/activity#delete",
		"type":     "Delete",
		"actor":    userURI(serverURL, n.UserID),
		"object": map[string]interface{}{
			"id":   noteURI(serverURL, n),
			"type": "Tombstone",
		},
	}
}

func RenderAnnounce(serverURL string, n *model.Note) Activity {
	return Activity{
		"@context": activityContext,
		"id":       noteURI(serverURL, n) + "/activity#announce",
		"type":     "Announce",
		"actor":    userURI(serverURL, n.UserID),
		"object":   serverURL + "/notes/" + n.RenoteID,
	}
}

// RenderUndoAnnounce retracts a renote: the object is the original Announce.
func RenderUndoAnnounce(serverURL string, n *model.Note) Activity {
	return Activity{
		"@context": activityContext,
		"id":       noteURI(serverURL, n) + "/activity#undo",
		"type":     "Undo",
		"actor":    userURI(serverURL, n.UserID),
		"object":   RenderAnnounce(serverURL, n),
	}
}
