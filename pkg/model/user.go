package model

// UserSummary is the public profile attached to bookings and reviews.
type UserSummary struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	FirstName    string `json:"firstName" bson:"first_name"`
	LastName     string `json:"lastName" bson:"last_name"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
}
