package documents

import "hris/internal/apperror"

var (
	ErrNotFound     = apperror.NotFound("document_not_found", "document not found")
	ErrNotVisible   = apperror.Forbidden("forbidden", "you cannot access this document")
	ErrReviewerOnly = apperror.Forbidden("forbidden", "only HR or administrators may review documents")
	ErrNotPending   = apperror.Validation("invalid_state", "only pending documents can be reviewed")
	ErrFileMissing  = apperror.NotFound("file_not_found", "document file is missing")
)
