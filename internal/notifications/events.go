// Package notifications provides real-time notification delivery and management.
package notifications

import "encoding/json"

// Event is the wire format delivered to websocket clients.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Encode renders the event as a JSON string for publishing.
func (e Event) Encode() string {
	b, err := json.Marshal(e)
	if err != nil {
		return `{"type":"` + e.Type + `"}`
	}
	return string(b)
}

// NewFollowEvent notifies a user that someone started following them.
func NewFollowEvent(followerID uint, followerUsername string) Event {
	return Event{
		Type: "follow",
		Payload: map[string]any{
			"follower_id":       followerID,
			"follower_username": followerUsername,
		},
	}
}

// NewLikeEvent notifies a post owner about a new like.
func NewLikeEvent(postID, likerID uint, likerUsername string) Event {
	return Event{
		Type: "like",
		Payload: map[string]any{
			"post_id":        postID,
			"liker_id":       likerID,
			"liker_username": likerUsername,
		},
	}
}

// NewCommentEvent notifies a post owner about a new comment.
func NewCommentEvent(postID, commentID, commenterID uint, commenterUsername string) Event {
	return Event{
		Type: "comment",
		Payload: map[string]any{
			"post_id":            postID,
			"comment_id":         commentID,
			"commenter_id":       commenterID,
			"commenter_username": commenterUsername,
		},
	}
}
