package github

import (
	"encoding/json"
	"time"
)

// EventPush is the Events API type for pushes to a branch
const EventPush = "PushEvent"

// Event represents the raw event structure from the GitHub Events API
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Actor     EventActor      `json:"actor"`
	Repo      EventRepo       `json:"repo"`
	Payload   json.RawMessage `json:"payload"`
	Public    bool            `json:"public"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventActor represents the user who triggered the event
type EventActor struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// EventRepo represents the repository in the event
type EventRepo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PushEventPayload for PushEvent
type PushEventPayload struct {
	Ref     string `json:"ref"` // refs/heads/branch-name
	Commits []struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
	} `json:"commits"`
	Size int `json:"size"`
}

// CommitCount returns the number of commits carried by a push event.
// GitHub has started omitting the commit list from public payloads, so
// size is used when the list is empty. Non-push events and undecodable
// payloads count as zero.
func (e Event) CommitCount() int {
	if e.Type != EventPush || len(e.Payload) == 0 {
		return 0
	}

	var p PushEventPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return 0
	}

	if len(p.Commits) > 0 {
		return len(p.Commits)
	}
	return p.Size
}
