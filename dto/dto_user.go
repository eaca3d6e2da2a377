package dto

import (
	"github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileReq struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
}

func (r UpdateProfileReq) ToUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Bio: r.Bio}
}

type PasswordReq struct {
	Password string `json:"password"`
}

type FollowReq struct {
	FollowID string `json:"followId"`
}

type UnfollowReq struct {
	UnFollowID string `json:"unFollowId"`
}

type TokenReq struct {
	Token string `json:"token"`
}

type ForgetPasswordReq struct {
	Email string `json:"email"`
}

type ResetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserResponse adds the derived account tier to a user document.
type UserResponse struct {
	models.User
	AccountType models.AccountType `json:"accountType"`
}

func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{User: *u, AccountType: u.AccountType()}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *NewUserResponse(&users[i]))
	}
	return out
}

type UserWithPostsResponse struct {
	UserResponse
	Posts []models.Post `json:"posts"`
}

func NewUsersWithPosts(rows []models.UserWithPosts) []UserWithPostsResponse {
	out := make([]UserWithPostsResponse, 0, len(rows))
	for i := range rows {
		posts := rows[i].Posts
		if posts == nil {
			posts = []models.Post{}
		}
		out = append(out, UserWithPostsResponse{UserResponse: *NewUserResponse(&rows[i].User), Posts: posts})
	}
	return out
}

// ProfileResponse replaces viewedBy ids with the viewers themselves.
type ProfileResponse struct {
	UserResponse
	Posts    []models.Post  `json:"posts"`
	ViewedBy []UserResponse `json:"viewedBy"`
}

func NewProfileResponse(d *services.ProfileDetail) ProfileResponse {
	posts := d.Posts
	if posts == nil {
		posts = []models.Post{}
	}
	return ProfileResponse{
		UserResponse: *NewUserResponse(&d.User),
		Posts:        posts,
		ViewedBy:     NewUserResponses(d.Viewers),
	}
}
