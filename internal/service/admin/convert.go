package admin

import (
	"time"

	"github.com/promptstack/console-backend/internal/docstore"
	"github.com/promptstack/console-backend/internal/domain"
)

// Payload fields are schema-less: defaulting happens here, at the boundary,
// and nowhere deeper. Fields consumed into the base shape are removed from
// Extra; everything else rides along uninterpreted.

func decodeEntity(kind domain.Kind, doc docstore.Document, now time.Time) domain.Entity {
	data := doc.Data

	ownerID := doc.Parent
	if ownerID == "" {
		ownerID = asString(data["userId"])
	}

	title := asString(data["title"])
	if title == "" {
		title = "Untitled"
	}

	// Older prompt payloads store their text under "body".
	content := asString(data["body"])
	if content == "" {
		content = asString(data["content"])
	}

	createdAt := asInt64(data["createdAt"])
	if createdAt == 0 {
		createdAt = now.Unix()
	}
	updatedAt := asInt64(data["updatedAt"])
	if updatedAt == 0 {
		updatedAt = now.Unix()
	}

	e := domain.Entity{
		ID:        doc.ID,
		Kind:      kind,
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		IsPublic:  asBool(data["isPublic"]),
		Views:     int(asInt64(data["views"])),
		Likes:     int(asInt64(data["likes"])),
		Tags:      asStrings(data["tags"]),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	consumed := map[string]bool{
		"userId": true, "title": true, "body": true, "content": true,
		"isPublic": true, "views": true, "likes": true, "tags": true,
		"createdAt": true, "updatedAt": true,
	}
	for k, v := range data {
		if consumed[k] {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}
		e.Extra[k] = v
	}

	return e
}

func decodeOwner(doc docstore.Document) domain.Owner {
	data := doc.Data
	name := asString(data["displayName"])
	if name == "" {
		name = asString(data["name"])
	}
	return domain.Owner{
		ID:          doc.ID,
		Email:       asString(data["email"]),
		DisplayName: name,
		IsAdmin:     asBool(data["isAdmin"]),
		CreatedAt:   asInt64(data["createdAt"]),
		LastLoginAt: asInt64(data["lastLoginAt"]),
	}
}

// ownerAsEntity projects an owner record into the shared entity shape so the
// users listing flows through the same pagination pipeline.
func ownerAsEntity(doc docstore.Document, now time.Time) domain.Entity {
	e := decodeEntity(domain.KindUser, doc, now)
	e.OwnerID = doc.ID
	if t := asString(doc.Data["email"]); t != "" {
		e.Title = t
	}
	return e
}

// ---------------------------------------------------------------------------
// Loose payload coercion
// ---------------------------------------------------------------------------

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func asStrings(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
