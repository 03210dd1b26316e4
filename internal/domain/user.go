package domain

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// DefaultAvatarURL is applied when a registering user supplies no photo.
const DefaultAvatarURL = "https://i.ibb.co/2PNyHnZ/default-avatar.png"

// User is a user document in the users collection. The password hash is
// stored but never serialized outward.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PhotoURL     string    `json:"photoUrl"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

func (r RegisterRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.PhotoURL, is.URL),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// UserPatch is a partial profile update with merge-write semantics.
type UserPatch struct {
	DisplayName *string `json:"displayName,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
}

func (p UserPatch) Validate() error {
	if p.Email != nil {
		if err := validation.Validate(*p.Email, validation.Required, is.Email); err != nil {
			return fmt.Errorf("%w: email: %v", ErrValidation, err)
		}
	}
	if p.PhotoURL != nil && *p.PhotoURL != "" {
		if err := validation.Validate(*p.PhotoURL, is.URL); err != nil {
			return fmt.Errorf("%w: photoUrl: %v", ErrValidation, err)
		}
	}
	return nil
}

// Fields returns the supplied fields as a document fragment.
func (p UserPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.DisplayName != nil {
		m["displayName"] = *p.DisplayName
	}
	if p.Email != nil {
		m["email"] = *p.Email
	}
	if p.PhotoURL != nil {
		m["photoUrl"] = *p.PhotoURL
	}
	return m
}

// Fields flattens the user into a document for the store, password hash
// included.
func (u User) Fields() (map[string]any, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	delete(m, "id")
	m["passwordHash"] = u.PasswordHash
	return m, nil
}

// UserFromFields rebuilds a user from a stored document.
func UserFromFields(id string, fields map[string]any) (User, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, err
	}
	u.ID = id
	if hash, ok := fields["passwordHash"].(string); ok {
		u.PasswordHash = hash
	}
	return u, nil
}
