// Package policy decides whether a caller may perform an action on a catalog resource.
// Evaluate is a pure function over the caller identity and the resource state; it never
// touches storage, so callers fetch the object first and a missing object stays a 404.
package policy

import (
	"errors"

	"aniverse/internal/microservices/http-api/models"
)

var (
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
)

type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Kind string

const (
	KindAnime        Kind = "anime"
	KindGenre        Kind = "genre"
	KindStudio       Kind = "studio"
	KindRating       Kind = "rating"
	KindCollection   Kind = "collection"
	KindComment      Kind = "comment"
	KindReview       Kind = "review"
	KindRegistration Kind = "registration"
	KindNotification Kind = "notification"
)

// Identity is the caller resolved from a bearer token. A nil *Identity is anonymous.
type Identity struct {
	UserID    string
	ProfileID int64
	Roles     []string
}

func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports catalog write access: admins and moderators.
func (i *Identity) IsStaff() bool {
	return i.HasRole(models.RoleAdmin) || i.HasRole(models.RoleModerator)
}

// Resource names the target of an action. OwnerProfileID is zero for class-level checks.
type Resource struct {
	Kind           Kind
	OwnerProfileID int64
}

func Class(kind Kind) Resource {
	return Resource{Kind: kind}
}

func Owned(kind Kind, ownerProfileID int64) Resource {
	return Resource{Kind: kind, OwnerProfileID: ownerProfileID}
}

func isRead(a Action) bool {
	return a == ActionRead || a == ActionList
}

// Evaluate returns nil when allowed, ErrUnauthenticated when the rule needs an identity
// and none was given, and ErrForbidden otherwise.
func Evaluate(id *Identity, action Action, res Resource) error {
	switch res.Kind {
	case KindRegistration:
		return nil

	case KindAnime, KindGenre, KindStudio:
		if isRead(action) {
			return nil
		}
		if id == nil {
			return ErrUnauthenticated
		}
		if !id.IsStaff() {
			return ErrForbidden
		}
		return nil

	case KindComment, KindReview:
		if isRead(action) {
			return nil
		}
		return ownerRule(id, action, res)

	case KindRating, KindCollection, KindNotification:
		return ownerRule(id, action, res)
	}
	return ErrForbidden
}

// ownerRule: create and list need only an identity; everything else needs ownership.
// Collection and notification listings are additionally scoped to the caller by the service.
func ownerRule(id *Identity, action Action, res Resource) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if action == ActionCreate || action == ActionList {
		return nil
	}
	if id.ProfileID == 0 || res.OwnerProfileID != id.ProfileID {
		return ErrForbidden
	}
	return nil
}
