package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document. The password hash is never serialized to
// JSON; store reads that feed responses additionally project it out.
type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Handle     string               `bson:"handle" json:"handle"`
	FullName   string               `bson:"full_name" json:"full_name"`
	Email      string               `bson:"email" json:"email"`
	Password   string               `bson:"password,omitempty" json:"-"`
	Followers  []primitive.ObjectID `bson:"followers" json:"followers"`
	Following  []primitive.ObjectID `bson:"following" json:"following"`
	ProfileImg string               `bson:"profile_img,omitempty" json:"profile_img,omitempty"`
	CoverImg   string               `bson:"cover_img,omitempty" json:"cover_img,omitempty"`
	Bio        string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Link       string               `bson:"link,omitempty" json:"link,omitempty"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}

// IsFollowing reports whether id is in the user's following set.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	FullName   *string
	Email      *string
	Bio        *string
	Link       *string
	Password   *string // already hashed
	ProfileImg *string
	CoverImg   *string
}

// Comment is embedded in a Post and ordered by append sequence.
type Comment struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Post owns its comments and its likes set.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Text      string               `bson:"text,omitempty" json:"text,omitempty"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// HasLike reports whether id is in the post's likes set.
func (p *Post) HasLike(id primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l == id {
			return true
		}
	}
	return false
}

type NotificationType string

const (
	NotificationLike   NotificationType = "like"
	NotificationFollow NotificationType = "follow"
)

// Notification references two accounts by id without owning either.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From      primitive.ObjectID `bson:"from" json:"from"`
	To        primitive.ObjectID `bson:"to" json:"to"`
	Type      NotificationType   `bson:"type" json:"type"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// NotificationWithSender is a notification enriched with the sender's public
// profile, as returned by the listing aggregation.
type NotificationWithSender struct {
	Notification `bson:",inline"`
	FromUser     User `bson:"from_user" json:"from_user"`
}
