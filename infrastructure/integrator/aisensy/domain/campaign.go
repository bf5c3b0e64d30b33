package aisensydomain

// ListCampaignsRequest é o corpo do POST /campaigns
type ListCampaignsRequest struct {
	AssistantID string `json:"assistantId"`
	Skip        int    `json:"skip"`
	RowsPerPage int    `json:"rowsPerPage"`
	NameQuery   string `json:"nameQuery"`
	TabType     string `json:"tabType"`
}

// ListCampaignsResponse é uma página de campanhas. Campaigns é ponteiro para
// diferenciar lista vazia de campo ausente.
type ListCampaignsResponse struct {
	Campaigns      *[]Campaign `json:"campaigns"`
	TotalCampaigns int         `json:"totalCampaigns"`
	NewSkip        int         `json:"newSkip"`
}

// Campaign é a campanha como vem da API; createdAt chega como string ISO
type Campaign struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// CampaignChatsRequest é o corpo do POST /campaign-chats
type CampaignChatsRequest struct {
	AssistantID string `json:"assistantId"`
	CampaignID  string `json:"campaignId"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
}

type CampaignChatsResponse struct {
	Chats []Chat `json:"chats"`
}

// Chat é a contagem diária de mensagens de uma campanha
type Chat struct {
	DayDate   string `json:"dayDate"`
	Sent      uint   `json:"sentChatCount"`
	Delivered uint   `json:"deliveredChatcount"`
	Read      uint   `json:"readChatCount"`
	Failed    uint   `json:"failedChatCount"`
}
