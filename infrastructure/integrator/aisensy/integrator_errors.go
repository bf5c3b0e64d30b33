package aisensy

import "errors"

var (
	ErrInvalidCampaignList = errors.New("failed to fetch campaigns: invalid data format")
	ErrMissingAssistantID  = errors.New("assistantId não configurado")
)
