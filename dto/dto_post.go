package dto

import (
	"github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

// CreatePostReq arrives as multipart form fields next to the image file.
type CreatePostReq struct {
	Title       string `json:"title" form:"title"`
	Category    string `json:"category" form:"category"`
	Description string `json:"description" form:"description"`
}

type UpdatePostReq struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

func (r UpdatePostReq) ToUpdate() models.PostUpdate {
	return models.PostUpdate{Title: r.Title, Category: r.Category, Description: r.Description}
}

type ReactionReq struct {
	PostID string `json:"postId"`
}

// PostResponse is a post with its author and comments populated.
type PostResponse struct {
	models.Post
	Author   *UserResponse    `json:"author"`
	Comments []models.Comment `json:"comments"`
}

// PostDetailResponse also populates the reacting users.
type PostDetailResponse struct {
	PostResponse
	Likes   []UserResponse `json:"likes"`
	UnLikes []UserResponse `json:"unLikes"`
}

func NewPostResponse(d services.PostDetail) PostResponse {
	comments := d.Comments
	if comments == nil {
		comments = []models.Comment{}
	}
	return PostResponse{Post: d.Post, Author: NewUserResponse(d.Author), Comments: comments}
}

func NewPostResponses(list []services.PostDetail) []PostResponse {
	out := make([]PostResponse, 0, len(list))
	for _, d := range list {
		out = append(out, NewPostResponse(d))
	}
	return out
}

func NewPostDetailResponse(d *services.PostDetail) PostDetailResponse {
	return PostDetailResponse{
		PostResponse: NewPostResponse(*d),
		Likes:        NewUserResponses(d.LikedBy),
		UnLikes:      NewUserResponses(d.DislikedBy),
	}
}

type ListPostsResp struct {
	Posts      []PostResponse `json:"posts"`
	NextCursor *string        `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

func NewListPostsResp(p *services.PostPage) ListPostsResp {
	resp := ListPostsResp{Posts: NewPostResponses(p.Items)}
	if p.NextCursor != "" {
		next := p.NextCursor
		resp.NextCursor, resp.HasMore = &next, true
	}
	return resp
}
