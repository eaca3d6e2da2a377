package dto

import (
	"github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type CreateCommentReq struct {
	PostID      string `json:"postId"`
	Description string `json:"description"`
}

type UpdateCommentReq struct {
	Description string `json:"description"`
}

type ListCommentsResp struct {
	Comments   []models.Comment `json:"comments"`
	NextCursor *string          `json:"next_cursor"`
	HasMore    bool             `json:"has_more"`
}

func NewListCommentsResp(p *services.CommentPage) ListCommentsResp {
	resp := ListCommentsResp{Comments: p.Items}
	if resp.Comments == nil {
		resp.Comments = []models.Comment{}
	}
	if p.NextCursor != "" {
		next := p.NextCursor
		resp.NextCursor, resp.HasMore = &next, true
	}
	return resp
}

type CategoryReq struct {
	Title string `json:"title"`
}

type CategoryResponse struct {
	models.Category
	User *UserResponse `json:"user"`
}

func NewCategoryResponse(d services.CategoryDetail) CategoryResponse {
	return CategoryResponse{Category: d.Category, User: NewUserResponse(d.User)}
}

type SendEmailReq struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
