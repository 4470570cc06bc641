package domain

type CtxKey string

const (
	KeyRequestID   CtxKey = "RequestID"
	KeyFormSession CtxKey = "FormSession"
)
