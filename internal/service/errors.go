package service

import "errors"

var (
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrResponseNotFound      = errors.New("response not found")
	ErrResponseCompleted     = errors.New("response already submitted")
	ErrSubdomainTaken        = errors.New("subdomain already exists")
	ErrInvalidSubdomain      = errors.New("invalid subdomain format")
	ErrMissingFields         = errors.New("missing required fields: subdomain, law_firm_email, law_firm_name")
	ErrInvalidConfiguration  = errors.New("invalid questionnaire JSON")
	ErrWrongField            = errors.New("answer is not for the current question")
	ErrSessionFinished       = errors.New("questionnaire already finished")
	ErrNoPreviousQuestion    = errors.New("no previous question")
	ErrFileTooLarge          = errors.New("file size exceeds limit")
	ErrFileType              = errors.New("invalid file type, only images and PDFs are allowed")
)
