package dto

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,notblank"`
	Description *string `json:"description"`
}

type UpdateTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

type RawQueryRequest struct {
	Query string `json:"query" validate:"required,notblank"`
}
