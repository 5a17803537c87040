package handler

const (
	contentTypeJSON = "application/json"

	// Keep parser bound aligned with global body limit.
	maxBodyBytes int64 = 1 << 20

	paramID = "id"

	metadataKeyTitle = "title"

	msgContentTypeJSONRequired = "content type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgTitleRequired           = "title is required"
	msgRecipeRequired          = "recipe is required"
	msgDrinkNotFound           = "drink not found"

	MsgBadRequest         = "bad request"
	MsgUnauthorized       = "unauthorized"
	MsgForbidden          = "forbidden"
	MsgNotFound           = "resource not found"
	MsgMethodNotAllowed   = "method not allowed"
	MsgConflict           = "conflict"
	MsgUnprocessable      = "unprocessable"
	MsgRateLimitExceeded  = "rate limit exceeded"
	MsgServerError        = "Server error"
	MsgServiceUnavailable = "service unavailable"
)
